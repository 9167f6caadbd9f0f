package record

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes rec to path. Readers see either the previous file or the
// complete new one, never a partial write.
func Save(path string, rec *GameRecord) error {
	data, err := EncodeToBytes(rec)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0o644)
}

// Load reads and validates a record written by Save.
func Load(path string) (*GameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	// The temp file lives next to the target so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
