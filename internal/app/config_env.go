package app

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvInput    = "PRIXAULITRE_INPUT"
	EnvOutput   = "PRIXAULITRE_OUTPUT"
	EnvURL      = "PRIXAULITRE_URL"
	EnvForce    = "PRIXAULITRE_FORCE"
	EnvWatch    = "PRIXAULITRE_WATCH"
	EnvDelays   = "PRIXAULITRE_DELAYS"
	EnvDebounce = "PRIXAULITRE_DEBOUNCE"
	EnvVerbose  = "PRIXAULITRE_VERBOSE"
)

// ApplyEnvOverrides replaces cfg fields whose environment variable is set.
// It runs after the config file and before explicit flags. Malformed
// durations are reported; unrecognized booleans are ignored.
func ApplyEnvOverrides(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if v := os.Getenv(EnvInput); v != "" {
		cfg.InputPath = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv(EnvURL); v != "" {
		cfg.PageURL = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvDelays)); v != "" {
		delays, err := parseDurations(strings.Split(v, ","))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDelays, err)
		}
		cfg.Delays = delays
	}
	if v := strings.TrimSpace(os.Getenv(EnvDebounce)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebounce, err)
		}
		cfg.Debounce = d
	}

	setBool := func(dst *bool, key string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.Force, EnvForce)
	setBool(&cfg.Watch, EnvWatch)
	setBool(&cfg.Verbose, EnvVerbose)
	return nil
}

// LoadEnvFiles reads dotenv files of KEY=VALUE lines into the process
// environment. Variables already set in the environment are kept, and among
// files the first one to define a key wins. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := loadEnvFile(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, val, ok := parseEnvLine(sc.Text())
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return err
		}
	}
	return sc.Err()
}

// parseEnvLine accepts "KEY=VALUE" and "export KEY=VALUE", with optional
// single or double quotes around the value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, val, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	val = strings.TrimSpace(val)
	if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
		val = val[1 : n-1]
	}
	return key, val, true
}
