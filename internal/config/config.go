package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel  = "decay"
	DefaultMethod = "euler"
	DefaultT0     = 0.0
	DefaultTBound = 1.0
	DefaultData   = "data"
)

type Config struct {
	Model         string             `yaml:"model" env:"EULERODE_MODEL"`
	Method        string             `yaml:"method" env:"EULERODE_METHOD"`
	T0            float64            `yaml:"t0" env:"EULERODE_T0"`
	TBound        float64            `yaml:"t_bound" env:"EULERODE_T_BOUND"`
	Y0            []float64          `yaml:"y0,omitempty" env:"EULERODE_Y0"`
	Params        map[string]float64 `yaml:"params,omitempty"`
	Options       map[string]any     `yaml:"options,omitempty"`
	TEval         []float64          `yaml:"t_eval,omitempty"`
	DenseOutput   bool               `yaml:"dense_output" env:"EULERODE_DENSE_OUTPUT"`
	ValidateState bool               `yaml:"validate_state" env:"EULERODE_VALIDATE_STATE"`
	MaxSteps      int                `yaml:"max_steps" env:"EULERODE_MAX_STEPS"`
	DataDir       string             `yaml:"data_dir" env:"EULERODE_DATA_DIR"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:         DefaultModel,
		Method:        DefaultMethod,
		T0:            DefaultT0,
		TBound:        DefaultTBound,
		ValidateState: true,
		DataDir:       DefaultData,
	}
}

// Load reads defaults, then the YAML file at path (skipped when path is
// empty), then EULERODE_* environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the YAML file at path and then the environment onto cfg.
// Keys absent from the file keep their current values, so cfg may be a
// preset.
func LoadInto(cfg *Config, path string) error {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("config: model must be set")
	}
	if c.Method == "" {
		return errors.New("config: method must be set")
	}
	if math.IsNaN(c.T0) || math.IsInf(c.T0, 0) || math.IsNaN(c.TBound) || math.IsInf(c.TBound, 0) {
		return fmt.Errorf("config: t0 and t_bound must be finite, got %v and %v", c.T0, c.TBound)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("config: max_steps must not be negative, got %d", c.MaxSteps)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Y0 != nil {
		out.Y0 = append([]float64(nil), c.Y0...)
	}
	if c.TEval != nil {
		out.TEval = append([]float64(nil), c.TEval...)
	}
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	if c.Options != nil {
		out.Options = make(map[string]any, len(c.Options))
		for k, v := range c.Options {
			out.Options[k] = v
		}
	}
	return &out
}
