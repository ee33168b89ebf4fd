package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/prixaulitre/internal/match"
	"github.com/hyperifyio/prixaulitre/internal/page"
	"github.com/hyperifyio/prixaulitre/internal/scan"
	"github.com/hyperifyio/prixaulitre/internal/trigger"
	"github.com/hyperifyio/prixaulitre/internal/watch"
)

// ErrNotActivated is returned when the page URL is not an Amazon.fr search
// page and Force is off.
var ErrNotActivated = errors.New("page is not an Amazon.fr search page")

// ErrNoInput is returned when the input document is empty.
var ErrNoInput = errors.New("empty input document")

type App struct {
	cfg     Config
	scanner scan.Scanner

	// Stdin and Stdout back the "-" paths. They default to the process
	// streams.
	Stdin  io.Reader
	Stdout io.Writer
}

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &App{cfg: cfg, Stdin: os.Stdin, Stdout: os.Stdout}, nil
}

// Run annotates once, or keeps annotating until ctx is done in watch mode.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Watch {
		return a.Watch(ctx)
	}
	_, err := a.Annotate(ctx)
	return err
}

// Annotate loads the page, scans it and writes the result. An in-place
// output is only rewritten when the scan added annotations.
func (a *App) Annotate(ctx context.Context) (scan.Stats, error) {
	if err := ctx.Err(); err != nil {
		return scan.Stats{}, err
	}
	p, err := a.load()
	if err != nil {
		return scan.Stats{}, err
	}
	if err := a.activate(p); err != nil {
		return scan.Stats{}, err
	}
	st := a.scanner.Scan(p.Document())
	logStats(p, st, "once")
	if a.cfg.inPlace() && st.Annotated == 0 {
		return st, nil
	}
	if err := a.write(p); err != nil {
		return st, err
	}
	return st, nil
}

// Watch follows the input file for the lifetime of ctx. Each trigger reloads
// the file from disk and rescans it; visited listings carry the processed
// marker, so rescanning an in-place output never annotates twice, and our
// own rewrite settles after one no-op scan.
func (a *App) Watch(ctx context.Context) error {
	changes, err := watch.File(ctx, a.cfg.InputPath)
	if err != nil {
		return err
	}
	var total scan.Stats
	lc := trigger.Lifecycle{
		Scan: func(r trigger.Reason) {
			st, err := a.rescan(r)
			if err != nil {
				log.Warn().Err(err).Str("reason", r.String()).Msg("rescan failed")
				return
			}
			total.Add(st)
		},
		Delays:   a.cfg.Delays,
		Debounce: a.cfg.Debounce,
	}
	log.Info().Str("file", a.cfg.InputPath).Msg("watching page")
	lc.Run(ctx, changes)
	log.Info().Int("annotated", total.Annotated).Int("abandoned", total.Abandoned).Msg("watch stopped")
	return nil
}

func (a *App) rescan(r trigger.Reason) (scan.Stats, error) {
	p, err := a.load()
	if err != nil {
		return scan.Stats{}, err
	}
	if err := a.activate(p); err != nil {
		return scan.Stats{}, err
	}
	st := a.scanner.Scan(p.Document())
	logStats(p, st, r.String())
	if st.Annotated == 0 && a.cfg.inPlace() {
		return st, nil
	}
	return st, a.write(p)
}

func (a *App) load() (*page.Page, error) {
	var (
		p   *page.Page
		err error
	)
	if a.cfg.InputPath == StdioPath {
		p, err = page.Parse(a.Stdin)
	} else {
		p, err = page.ReadFile(a.cfg.InputPath)
	}
	switch {
	case errors.Is(err, page.ErrEmpty):
		return nil, ErrNoInput
	case err != nil:
		return nil, fmt.Errorf("read input: %w", err)
	}
	return p, nil
}

// activate checks the page URL against the userscript match patterns. The
// configured URL wins over the one the page declares.
func (a *App) activate(p *page.Page) error {
	if a.cfg.Force {
		return nil
	}
	u := a.cfg.PageURL
	if u == "" {
		u = p.URL()
	}
	if !match.Any(u) {
		if u == "" {
			return fmt.Errorf("%w: no page URL (set -url or -force)", ErrNotActivated)
		}
		return fmt.Errorf("%w: %s", ErrNotActivated, u)
	}
	return nil
}

func (a *App) write(p *page.Page) error {
	out := a.cfg.outputPath()
	if out == StdioPath {
		if _, err := p.WriteTo(a.Stdout); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	if err := p.WriteFile(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Debug().Str("file", out).Msg("page written")
	return nil
}

func logStats(p *page.Page, st scan.Stats, reason string) {
	ev := log.Debug()
	if st.Annotated > 0 {
		ev = log.Info()
	}
	ev.Str("reason", reason).
		Str("page", p.Title()).
		Int("candidates", st.Candidates).
		Int("skipped", st.Skipped).
		Int("annotated", st.Annotated).
		Int("abandoned", st.Abandoned).
		Msg("scan complete")
}
