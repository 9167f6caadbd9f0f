package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/mancala/internal/engine"
	"github.com/lox/mancala/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mancala.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())

	cfg, err = LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultRulesetName}, cfg.RulesetNames())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
seed = 42

ruleset "kalah" {
  holes_per_side = 6
  seeds_per_hole = 4
}

ruleset "relay" {
  holes_per_side = 4
  seeds_per_hole = 3
  capture_both   = false
  relay_sowing   = true
  multiple_laps  = false
}

engine {
  path       = "/opt/mancala/Mancala"
  args       = ["--quiet"]
  engine     = "heuristic_ab"
  difficulty = 0
  timeout_ms = 2500
  grace_ms   = 250
}
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, []string{"kalah", "relay"}, cfg.RulesetNames())
	assert.Equal(t, DefaultRuleset(), cfg.Rulesets[0])
	assert.Equal(t, Ruleset{
		Name:          "relay",
		HolesPerSide:  4,
		SeedsPerHole:  3,
		AllowCaptures: true,
		RelaySowing:   true,
	}, cfg.Rulesets[1])

	assert.Equal(t, Engine{
		Path:       "/opt/mancala/Mancala",
		Args:       []string{"--quiet"},
		Preferred:  engine.HeuristicAlphaBeta,
		Difficulty: 0,
		Timeout:    2500 * time.Millisecond,
		Grace:      250 * time.Millisecond,
	}, cfg.Engine)

	pc := cfg.Engine.ProcessConfig()
	assert.Equal(t, "/opt/mancala/Mancala", pc.Command)
	assert.Equal(t, []string{"--quiet"}, pc.Args)

	relay, err := cfg.Ruleset("relay")
	require.NoError(t, err)
	assert.Equal(t, "4x3 captures relay", relay.String())

	first, err := cfg.Ruleset("")
	require.NoError(t, err)
	assert.Equal(t, 6, first.HolesPerSide())

	_, err = cfg.Ruleset("oware")
	assert.ErrorIs(t, err, ErrUnknownRuleset)
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"syntax", `ruleset "kalah" {`},
		{"unknown attribute", `colour = "red"`},
		{"missing label", `ruleset { holes_per_side = 6 }`},
		{"unknown engine", `engine { engine = "deep_blue" }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileExplicitZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantHoles int
		wantSeeds int
		wantErr   error
	}{
		{
			name:      "zero seeds is an empty board",
			body:      `ruleset "empty" { seeds_per_hole = 0 }`,
			wantHoles: game.DefaultHolesPerSide,
			wantSeeds: 0,
		},
		{
			name:      "zero holes is rejected",
			body:      `ruleset "bad" { holes_per_side = 0 }`,
			wantHoles: 0,
			wantSeeds: game.DefaultSeedsPerHole,
			wantErr:   game.ErrInvalidRuleset,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := LoadFile(writeConfig(t, tt.body))
			require.NoError(t, err)
			require.Len(t, cfg.Rulesets, 1)
			assert.Equal(t, tt.wantHoles, cfg.Rulesets[0].HolesPerSide)
			assert.Equal(t, tt.wantSeeds, cfg.Rulesets[0].SeedsPerHole)

			err = cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			rules, err := cfg.Ruleset("")
			require.NoError(t, err)
			assert.Equal(t, 0, rules.TotalSeeds())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(map[string]string{
		"MANCALA_ENGINE_PATH":    "/usr/local/bin/Mancala",
		"MANCALA_ENGINE_ARGS":    "-v --fast",
		"MANCALA_ENGINE":         "beta_alpha",
		"MANCALA_DIFFICULTY":     "-3",
		"MANCALA_ENGINE_TIMEOUT": "10s",
		"MANCALA_ENGINE_GRACE":   "750ms",
		"MANCALA_SEED":           "7",
	}))

	assert.Equal(t, Engine{
		Path:       "/usr/local/bin/Mancala",
		Args:       []string{"-v", "--fast"},
		Preferred:  engine.BetaAlpha,
		Difficulty: -3,
		Timeout:    10 * time.Second,
		Grace:      750 * time.Millisecond,
	}, cfg.Engine)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestApplyEnvKeepsUnsetFields(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
seed = 9
engine {
  engine     = "minimax"
  difficulty = 4
}
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv(map[string]string{"MANCALA_DIFFICULTY": "8"}))

	assert.Equal(t, engine.Minimax, cfg.Engine.Preferred)
	assert.Equal(t, 8, cfg.Engine.Difficulty)
	assert.Equal(t, engine.DefaultTimeout, cfg.Engine.Timeout)
	assert.Equal(t, int64(9), cfg.Seed)
}

func TestApplyEnvErrors(t *testing.T) {
	t.Parallel()

	for _, environ := range []map[string]string{
		{"MANCALA_DIFFICULTY": "hard"},
		{"MANCALA_ENGINE": "deep_blue"},
		{"MANCALA_ENGINE_TIMEOUT": "soon"},
		{"MANCALA_SEED": "x"},
	} {
		assert.Error(t, DefaultConfig().ApplyEnv(environ), "%v", environ)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no rulesets", func(c *Config) { c.Rulesets = nil }},
		{"duplicate", func(c *Config) { c.Rulesets = append(c.Rulesets, DefaultRuleset()) }},
		{"bad ruleset", func(c *Config) { c.Rulesets[0].HolesPerSide = 0 }},
		{"bad engine", func(c *Config) { c.Engine.Preferred = engine.EngineID(42) }},
		{"no timeout", func(c *Config) { c.Engine.Timeout = 0 }},
		{"no grace", func(c *Config) { c.Engine.Grace = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
