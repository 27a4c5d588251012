package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"karaoke/cmd"
	"karaoke/config"
	"karaoke/logging"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:    "karaoke",
		Usage:   "Run a karaoke night: guest requests, host queue and catalogue scraping",
		Version: "1.0.0",
		Commands: []*cli.Command{
			serveCommand(),
			scrapeCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logging.New(nil, "error").Fatal("application error", "error", err)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.yaml",
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the guest/host web server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the web server (overrides config and environment)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadOrDefault(c.String("config"))
			if err != nil {
				return err
			}
			if port := c.String("port"); port != "" {
				cfg.Server.Port = port
			}

			logger := logging.New(os.Stderr, cfg.LogLevel)
			return cmd.StartWebServer(ctx, cfg, logger)
		},
	}
}

func scrapeCommand() *cli.Command {
	return &cli.Command{
		Name:  "scrape",
		Usage: "Harvest the JKaraoke catalogue into JSON and CSV files",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "json",
				Usage: "Output path for the JSON catalogue",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Output path for the CSV catalogue",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Page URL template with a %d verb for the page number",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadOrDefault(c.String("config"))
			if err != nil {
				return err
			}
			if path := c.String("json"); path != "" {
				cfg.Scraper.OutputJSON = path
			}
			if path := c.String("csv"); path != "" {
				cfg.Scraper.OutputCSV = path
			}
			if url := c.String("url"); url != "" {
				cfg.Scraper.URLTemplate = url
			}

			logger := logging.New(os.Stderr, cfg.LogLevel)
			_, err = cmd.RunScrape(ctx, cfg, logger, os.Stderr)
			return err
		},
	}
}
