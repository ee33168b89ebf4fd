package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML or JSON configuration file. Durations are
// written as Go duration strings ("500ms", "3s").
type FileConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`

	Page struct {
		URL   string `yaml:"url" json:"url"`
		Force bool   `yaml:"force" json:"force"`
	} `yaml:"page" json:"page"`

	Watch struct {
		Enable   bool     `yaml:"enable" json:"enable"`
		Delays   []string `yaml:"delays" json:"delays"`
		Debounce string   `yaml:"debounce" json:"debounce"`
	} `yaml:"watch" json:"watch"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// JSON is valid YAML, so one decoder covers both.
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse config: %w", err)
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It runs before
// environment and flag overrides, so it only replaces defaults.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}

	if s := strings.TrimSpace(fc.Input); s != "" {
		cfg.InputPath = s
	}
	if s := strings.TrimSpace(fc.Output); s != "" {
		cfg.OutputPath = s
	}
	if s := strings.TrimSpace(fc.Page.URL); s != "" {
		cfg.PageURL = s
	}
	if fc.Page.Force {
		cfg.Force = true
	}
	if fc.Watch.Enable {
		cfg.Watch = true
	}
	if fc.Verbose {
		cfg.Verbose = true
	}

	if fc.Watch.Delays != nil {
		delays, err := parseDurations(fc.Watch.Delays)
		if err != nil {
			return fmt.Errorf("config: watch.delays: %w", err)
		}
		cfg.Delays = delays
	}
	if s := strings.TrimSpace(fc.Watch.Debounce); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("config: watch.debounce: %w", err)
		}
		cfg.Debounce = d
	}
	return nil
}

// ValidateConfig rejects combinations the app cannot run.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input path is required (use - for stdin)")
	}
	if cfg.Watch {
		if cfg.InputPath == StdioPath {
			return errors.New("config: watch mode needs an input file, not stdin")
		}
		if cfg.OutputPath == StdioPath {
			return errors.New("config: watch mode cannot write to stdout")
		}
	}
	if cfg.Debounce < 0 {
		return errors.New("config: negative debounce is not allowed")
	}
	for _, d := range cfg.Delays {
		if d < 0 {
			return errors.New("config: negative delays are not allowed")
		}
	}
	return nil
}

// parseDurations reads a list of duration strings; blanks are skipped.
func parseDurations(in []string) ([]time.Duration, error) {
	out := make([]time.Duration, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
