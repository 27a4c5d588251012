package cmd

import (
	"context"
	"io"

	"karaoke/config"
	"karaoke/logging"
	"karaoke/scraper"

	"github.com/charmbracelet/log"
)

// RunScrape harvests the JKaraoke catalogue into the configured output files
func RunScrape(ctx context.Context, cfg *config.Config, logger *log.Logger, progress io.Writer) (*scraper.Result, error) {
	scrapeLogger := logging.Component(logger, "scraper")

	fetcher := scraper.NewCollyFetcher(cfg.Scraper.URLTemplate, cfg.Scraper.UserAgent, cfg.Scraper.RequestTimeout)

	opts := scraper.OptionsFromConfig(cfg.Scraper)
	opts.Progress = progress

	scrapeLogger.Info("scrape starting",
		"url", fetcher.PageURL(1),
		"json", opts.OutputJSON,
		"csv", opts.OutputCSV,
	)

	result, err := scraper.New(fetcher, opts, scrapeLogger).Run(ctx)
	if err != nil {
		return result, err
	}

	scrapeLogger.Info("saved catalogue", "songs", len(result.Songs), "json", opts.OutputJSON, "csv", opts.OutputCSV)
	return result, nil
}
