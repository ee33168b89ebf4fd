package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/prixaulitre/internal/app"
)

// Build information, set with -ldflags "-X main.version=...".
var (
	version = "0.0.0-dev"
	commit  = "unknown"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, showVersion, err := parseConfig(os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	if showVersion {
		fmt.Printf("prixaulitre %s (%s)\n", version, commit)
		return
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when the page is not one we annotate, 1 for
		// anything else.
		if errors.Is(err, app.ErrNotActivated) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}

// parseConfig layers defaults, config file, environment and explicitly set
// flags, each overriding the previous one.
func parseConfig(args []string) (app.Config, bool, error) {
	fs := flag.NewFlagSet("prixaulitre", flag.ContinueOnError)
	var (
		inputPath   string
		outputPath  string
		pageURL     string
		force       bool
		watchMode   bool
		delays      string
		debounce    time.Duration
		verbose     bool
		configPath  string
		envFiles    string
		showVersion bool
	)
	def := app.DefaultConfig()
	fs.StringVar(&inputPath, "input", def.InputPath, "Saved Amazon.fr search page to annotate (- for stdin)")
	fs.StringVar(&outputPath, "output", "", "Where to write the annotated page (- for stdout; default: in place, or stdout for stdin)")
	fs.StringVar(&pageURL, "url", "", "Page URL used for activation when the page does not declare one")
	fs.BoolVar(&force, "force", false, "Annotate even when the URL does not match an Amazon.fr search page")
	fs.BoolVar(&watchMode, "watch", false, "Keep watching the input file and annotate new listings as they appear")
	fs.StringVar(&delays, "delays", joinDurations(def.Delays), "Comma-separated delayed rescans after start in watch mode")
	fs.DurationVar(&debounce, "debounce", def.Debounce, "Wait after a change before rescanning in watch mode")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.StringVar(&configPath, "config", os.Getenv("PRIXAULITRE_CONFIG"), "Optional YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load before reading the environment")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}
	if showVersion {
		return app.Config{}, true, nil
	}

	cfg := def
	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		return cfg, false, err
	}
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return cfg, false, fmt.Errorf("config file: %w", err)
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			return cfg, false, err
		}
	}
	if err := app.ApplyEnvOverrides(&cfg); err != nil {
		return cfg, false, err
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = inputPath
		case "output":
			cfg.OutputPath = outputPath
		case "url":
			cfg.PageURL = pageURL
		case "force":
			cfg.Force = force
		case "watch":
			cfg.Watch = watchMode
		case "delays":
			ds, err := parseDelays(delays)
			if err != nil {
				flagErr = fmt.Errorf("-delays: %w", err)
				return
			}
			cfg.Delays = ds
		case "debounce":
			cfg.Debounce = debounce
		case "v":
			cfg.Verbose = verbose
		}
	})
	if flagErr != nil {
		return cfg, false, flagErr
	}
	return cfg, false, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}

func parseDelays(s string) ([]time.Duration, error) {
	parts := splitList(s)
	out := make([]time.Duration, 0, len(parts))
	for _, p := range parts {
		d, err := time.ParseDuration(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func joinDurations(ds []time.Duration) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}
