// Package scraper harvests a paginated song catalogue into JSON and CSV files.
//
// A run walks pages in order, one request at a time. Failures are retried on
// the same page after a fixed delay; once the retry budget is spent the run
// stops early and whatever was collected is still written out.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"karaoke/config"
	"karaoke/types"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
)

// Options control one scrape run
type Options struct {
	OutputJSON      string
	OutputCSV       string
	Source          string
	RetryDelay      time.Duration
	PageDelay       time.Duration
	MaxRetries      int
	CheckpointEvery int

	// Progress receives the spinner; nil hides it
	Progress io.Writer
}

// OptionsFromConfig builds Options from the scraper config section
func OptionsFromConfig(cfg config.ScraperConfig) Options {
	return Options{
		OutputJSON:      cfg.OutputJSON,
		OutputCSV:       cfg.OutputCSV,
		Source:          cfg.Source,
		RetryDelay:      cfg.RetryDelay,
		PageDelay:       cfg.PageDelay,
		MaxRetries:      cfg.MaxRetries,
		CheckpointEvery: cfg.CheckpointEvery,
	}
}

// Result summarizes a finished run
type Result struct {
	Songs []types.Song
	// Pages counts pages that yielded songs
	Pages int
	// Aborted is set when the retry budget ran out
	Aborted bool
	// Cancelled is set when the context ended the run
	Cancelled bool
	// LastErr is the most recent fetch or parse failure, if any
	LastErr error
}

type state int

const (
	stateFetching state = iota
	stateParsing
	stateAccumulating
	stateDeciding
	stateBackoff
	stateDone
	stateAborted
)

func (s state) String() string {
	switch s {
	case stateFetching:
		return "fetching"
	case stateParsing:
		return "parsing"
	case stateAccumulating:
		return "accumulating"
	case stateDeciding:
		return "deciding"
	case stateBackoff:
		return "backoff"
	case stateDone:
		return "done"
	case stateAborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Scraper drives a Fetcher page by page
type Scraper struct {
	fetcher Fetcher
	opts    Options
	logger  *log.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// New creates a scraper; zero option values fall back to the configured defaults
func New(fetcher Fetcher, opts Options, logger *log.Logger) *Scraper {
	defaults := OptionsFromConfig(config.Default().Scraper)
	if opts.Source == "" {
		opts.Source = defaults.Source
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaults.MaxRetries
	}
	if opts.CheckpointEvery <= 0 {
		opts.CheckpointEvery = defaults.CheckpointEvery
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}

	return &Scraper{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
		sleep:   sleepContext,
	}
}

// run is the mutable state of a single scrape
type run struct {
	page    int
	retries int
	raw     []byte
	current *Page
	result  *Result
}

// Run scrapes until the source runs out of pages, the retry budget is spent
// or ctx is cancelled, then writes the final JSON and CSV files.
// Only a failure to write the final output is returned as an error.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	r := &run{
		page:   1,
		result: &Result{Songs: []types.Song{}},
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.opts.Progress),
		progressbar.OptionSetDescription("Starting scrape..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
	)

	st := stateFetching
	for st != stateDone && st != stateAborted {
		next := s.step(ctx, st, r)
		if next == stateAccumulating || next == stateBackoff {
			bar.Describe(fmt.Sprintf("Page %d (%d songs)...", r.page, len(r.result.Songs)))
			bar.Add(1)
		}
		s.logger.Debug("scrape transition", "from", st, "to", next, "page", r.page)
		st = next
	}
	bar.Finish()

	if st == stateAborted && !r.result.Cancelled {
		r.result.Aborted = true
	}

	s.logger.Info("scrape finished",
		"songs", len(r.result.Songs),
		"pages", r.result.Pages,
		"aborted", r.result.Aborted,
		"cancelled", r.result.Cancelled,
	)

	if err := s.finalize(r.result.Songs); err != nil {
		return r.result, err
	}
	return r.result, nil
}

// step performs the work of one state and returns the next state
func (s *Scraper) step(ctx context.Context, st state, r *run) state {
	switch st {
	case stateFetching:
		if ctx.Err() != nil {
			r.result.Cancelled = true
			return stateAborted
		}
		raw, err := s.fetcher.Fetch(ctx, r.page)
		if err != nil {
			r.result.LastErr = err
			return stateBackoff
		}
		r.raw = raw
		return stateParsing

	case stateParsing:
		page, err := Parse(r.raw)
		r.raw = nil
		if err != nil {
			r.result.LastErr = err
			return stateBackoff
		}
		if page == nil || len(page.Data) == 0 {
			return stateDone
		}
		r.current = page
		return stateAccumulating

	case stateAccumulating:
		r.result.Songs = append(r.result.Songs, Extract(r.current, s.opts.Source)...)
		r.result.Pages++
		r.retries = 0

		if r.result.Pages%s.opts.CheckpointEvery == 0 {
			s.checkpoint(r.result.Songs)
		}
		return stateDeciding

	case stateDeciding:
		if !r.current.HasNext() {
			return stateDone
		}
		r.page++
		r.current = nil
		if err := s.sleep(ctx, s.opts.PageDelay); err != nil {
			r.result.Cancelled = true
			return stateAborted
		}
		return stateFetching

	case stateBackoff:
		r.retries++
		s.logger.Warn("page failed", "page", r.page, "attempt", r.retries, "error", r.result.LastErr)
		if r.retries >= s.opts.MaxRetries {
			s.logger.Error("giving up after repeated failures", "page", r.page, "attempts", r.retries)
			return stateAborted
		}
		if err := s.sleep(ctx, s.opts.RetryDelay); err != nil {
			r.result.Cancelled = true
			return stateAborted
		}
		return stateFetching
	}

	return stateAborted
}

// checkpoint saves progress so a crash loses at most CheckpointEvery pages
func (s *Scraper) checkpoint(songs []types.Song) {
	if s.opts.OutputJSON == "" {
		return
	}
	if err := WriteJSON(s.opts.OutputJSON, songs, false); err != nil {
		s.logger.Warn("checkpoint failed", "path", s.opts.OutputJSON, "error", err)
		return
	}
	s.logger.Info("checkpoint saved", "songs", len(songs))
}

func (s *Scraper) finalize(songs []types.Song) error {
	var errs []error

	if s.opts.OutputJSON != "" {
		if err := WriteJSON(s.opts.OutputJSON, songs, true); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", s.opts.OutputJSON, err))
		}
	}
	if s.opts.OutputCSV != "" {
		if err := WriteCSV(s.opts.OutputCSV, songs); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", s.opts.OutputCSV, err))
		}
	}

	return errors.Join(errs...)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
