package app

import (
	"time"

	"github.com/hyperifyio/prixaulitre/internal/trigger"
)

// StdioPath selects stdin for InputPath and stdout for OutputPath.
const StdioPath = "-"

// Config holds runtime configuration for the application.
type Config struct {
	// InputPath is the saved search page, or "-" for stdin.
	InputPath string
	// OutputPath receives the annotated page: "-" for stdout, empty to
	// rewrite InputPath in place (stdout when reading stdin).
	OutputPath string

	// Activation
	PageURL string
	Force   bool

	// Watch mode
	Watch    bool
	Delays   []time.Duration
	Debounce time.Duration

	Verbose bool
}

// DefaultConfig returns the settings used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		InputPath: StdioPath,
		Delays:    append([]time.Duration(nil), trigger.DefaultDelays...),
		Debounce:  trigger.DefaultDebounce,
	}
}

// inPlace reports whether the output overwrites the input file.
func (c Config) inPlace() bool {
	return c.InputPath != StdioPath && (c.OutputPath == "" || c.OutputPath == c.InputPath)
}

// outputPath resolves the empty OutputPath default.
func (c Config) outputPath() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	if c.InputPath == StdioPath {
		return StdioPath
	}
	return c.InputPath
}
