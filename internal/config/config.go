// Package config loads rulesets and engine settings from an HCL file, with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/mancala/internal/engine"
	"github.com/lox/mancala/internal/game"
)

// DefaultRulesetName names the ruleset used when the file declares none.
const DefaultRulesetName = "kalah"

var ErrUnknownRuleset = errors.New("config: unknown ruleset")

// fileConfig is the HCL document.
type fileConfig struct {
	Seed     int64          `hcl:"seed,optional"`
	Rulesets []rulesetBlock `hcl:"ruleset,block"`
	Engine   *engineBlock   `hcl:"engine,block"`
}

type rulesetBlock struct {
	Name              string `hcl:"name,label"`
	HolesPerSide      *int   `hcl:"holes_per_side,optional"`
	SeedsPerHole      *int   `hcl:"seeds_per_hole,optional"`
	AllowCaptures     *bool  `hcl:"allow_captures,optional"`
	CaptureBoth       *bool  `hcl:"capture_both,optional"`
	CaptureOnOneCycle *bool  `hcl:"capture_on_one_cycle,optional"`
	RelaySowing       *bool  `hcl:"relay_sowing,optional"`
	MultipleLaps      *bool  `hcl:"multiple_laps,optional"`
}

type engineBlock struct {
	Path       string   `hcl:"path,optional"`
	Args       []string `hcl:"args,optional"`
	Engine     string   `hcl:"engine,optional"`
	Difficulty *int     `hcl:"difficulty,optional"`
	TimeoutMS  int      `hcl:"timeout_ms,optional"`
	GraceMS    int      `hcl:"grace_ms,optional"`
}

// Ruleset is a named variant with every field resolved.
type Ruleset struct {
	Name              string
	HolesPerSide      int
	SeedsPerHole      int
	AllowCaptures     bool
	CaptureBoth       bool
	CaptureOnOneCycle bool
	RelaySowing       bool
	MultipleLaps      bool
}

// Engine holds the external engine settings. Environment variables override
// whatever the file set.
type Engine struct {
	Path       string          `env:"MANCALA_ENGINE_PATH"`
	Args       []string        `env:"MANCALA_ENGINE_ARGS" envSeparator:" "`
	Preferred  engine.EngineID `env:"MANCALA_ENGINE"`
	Difficulty int             `env:"MANCALA_DIFFICULTY"`
	Timeout    time.Duration   `env:"MANCALA_ENGINE_TIMEOUT"`
	Grace      time.Duration   `env:"MANCALA_ENGINE_GRACE"`
}

// Config is the resolved configuration.
type Config struct {
	Seed     int64
	Rulesets []Ruleset
	Engine   Engine
}

type seedEnv struct {
	Seed int64 `env:"MANCALA_SEED"`
}

// DefaultRuleset returns the standard six-hole, four-seed Kalah variant.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Name:          DefaultRulesetName,
		HolesPerSide:  game.DefaultHolesPerSide,
		SeedsPerHole:  game.DefaultSeedsPerHole,
		AllowCaptures: true,
		CaptureBoth:   true,
		MultipleLaps:  true,
	}
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Rulesets: []Ruleset{DefaultRuleset()},
		Engine: Engine{
			Path:       "./Mancala",
			Preferred:  engine.AlphaBeta,
			Difficulty: engine.DefaultDifficulty,
			Timeout:    engine.DefaultTimeout,
			Grace:      engine.DefaultGrace,
		},
	}
}

// Load reads path, falling back to defaults when it does not exist, then
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads an HCL file without consulting the environment.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return fc.resolve()
}

// resolve fills absent attributes from the defaults.
func (fc *fileConfig) resolve() (*Config, error) {
	cfg := DefaultConfig()
	cfg.Seed = fc.Seed

	if len(fc.Rulesets) > 0 {
		cfg.Rulesets = cfg.Rulesets[:0]
	}
	for _, b := range fc.Rulesets {
		r := DefaultRuleset()
		r.Name = b.Name
		if b.HolesPerSide != nil {
			r.HolesPerSide = *b.HolesPerSide
		}
		if b.SeedsPerHole != nil {
			r.SeedsPerHole = *b.SeedsPerHole
		}
		setBool(&r.AllowCaptures, b.AllowCaptures)
		setBool(&r.CaptureBoth, b.CaptureBoth)
		setBool(&r.CaptureOnOneCycle, b.CaptureOnOneCycle)
		setBool(&r.RelaySowing, b.RelaySowing)
		setBool(&r.MultipleLaps, b.MultipleLaps)
		cfg.Rulesets = append(cfg.Rulesets, r)
	}

	if b := fc.Engine; b != nil {
		if b.Path != "" {
			cfg.Engine.Path = b.Path
		}
		cfg.Engine.Args = b.Args
		if b.Engine != "" {
			id, err := engine.ParseEngineID(b.Engine)
			if err != nil {
				return nil, fmt.Errorf("engine block: %w", err)
			}
			cfg.Engine.Preferred = id
		}
		if b.Difficulty != nil {
			cfg.Engine.Difficulty = *b.Difficulty
		}
		if b.TimeoutMS > 0 {
			cfg.Engine.Timeout = time.Duration(b.TimeoutMS) * time.Millisecond
		}
		if b.GraceMS > 0 {
			cfg.Engine.Grace = time.Duration(b.GraceMS) * time.Millisecond
		}
	}
	return cfg, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// ApplyEnv overrides fields from the given environment, or from the process
// environment when environ is nil. Unset variables leave fields untouched.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Environment: environ}
	if err := env.ParseWithOptions(&c.Engine, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	seed := seedEnv{Seed: c.Seed}
	if err := env.ParseWithOptions(&seed, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	c.Seed = seed.Seed
	return nil
}

// Validate checks that every ruleset builds and the engine settings are usable.
func (c *Config) Validate() error {
	if len(c.Rulesets) == 0 {
		return fmt.Errorf("at least one ruleset must be configured")
	}
	seen := make(map[string]bool, len(c.Rulesets))
	for _, r := range c.Rulesets {
		if seen[r.Name] {
			return fmt.Errorf("ruleset %q declared twice", r.Name)
		}
		seen[r.Name] = true
		if _, err := r.Build(); err != nil {
			return fmt.Errorf("ruleset %q: %w", r.Name, err)
		}
	}
	if !c.Engine.Preferred.Valid() {
		return fmt.Errorf("engine: %w: %d", engine.ErrUnknownEngine, int(c.Engine.Preferred))
	}
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("engine: timeout must be positive")
	}
	if c.Engine.Grace <= 0 {
		return fmt.Errorf("engine: grace period must be positive")
	}
	return nil
}

// Build returns the game ruleset.
func (r Ruleset) Build() (*game.Ruleset, error) {
	return game.NewRuleset(
		game.WithHolesPerSide(r.HolesPerSide),
		game.WithSeedsPerHole(r.SeedsPerHole),
		game.WithCaptures(r.AllowCaptures),
		game.WithCaptureBoth(r.CaptureBoth),
		game.WithCaptureOnOneCycle(r.CaptureOnOneCycle),
		game.WithRelaySowing(r.RelaySowing),
		game.WithMultipleLaps(r.MultipleLaps),
	)
}

// Ruleset builds the named ruleset. An empty name selects the first one.
func (c *Config) Ruleset(name string) (*game.Ruleset, error) {
	if name == "" && len(c.Rulesets) > 0 {
		return c.Rulesets[0].Build()
	}
	for _, r := range c.Rulesets {
		if r.Name == name {
			return r.Build()
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRuleset, name)
}

// RulesetNames lists the configured rulesets in file order.
func (c *Config) RulesetNames() []string {
	names := make([]string, len(c.Rulesets))
	for i, r := range c.Rulesets {
		names[i] = r.Name
	}
	return names
}

// ProcessConfig describes how to launch the configured engine.
func (e Engine) ProcessConfig() engine.ProcessConfig {
	return engine.ProcessConfig{Command: e.Path, Args: e.Args}
}
