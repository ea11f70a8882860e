package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"termplan/internal/config"
	"termplan/internal/ics"
	appLog "termplan/internal/log"
	"termplan/internal/planner"
	"termplan/internal/web"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner JSON API",
	Long: `Start the HTTP API. Sample calendars listed in the config are loaded at
startup and refreshed on the "refresh" cron schedule.

Examples:
  termplan serve
  termplan serve --listen :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveListen != "" {
			conf.Listen = serveListen
		}

		p, err := newPlanner(conf)
		if err != nil {
			appLog.Error("failed to initialize planner", err)
			return err
		}

		appLog.Info("effective config",
			"listen", conf.Listen,
			"timezone", conf.ProjectTimezone,
			"term_start", conf.Term.Start,
			"term_end", conf.Term.End,
			"refresh", conf.RefreshCron,
			"sample_count", len(conf.Samples),
		)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		loader, err := ics.NewSampleLoader(ics.NewFetcher(conf.CacheDir, conf.FetchPerMinute))
		if err != nil {
			return err
		}
		refresh := func() { refreshSamples(ctx, loader, p, conf.Samples) }
		refresh()

		c := cron.New()
		if _, err := c.AddFunc(conf.RefreshCron, refresh); err != nil {
			appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
			return err
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()

		if err := web.StartServer(ctx, conf.Listen, p); err != nil {
			appLog.Error("http server stopped", err)
			return err
		}
		appLog.Info("termplan exiting")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "HTTP listen address (overrides config if set)")
	rootCmd.AddCommand(serveCmd)
}

// refreshSamples reloads every sample. A failed fetch or decode leaves the
// previously loaded version in place.
func refreshSamples(ctx context.Context, loader *ics.SampleLoader, p *planner.Planner, samples []config.SampleConfig) {
	for _, s := range samples {
		src := ics.SampleSource{
			Source:   ics.Source{ID: s.ID, URL: s.URL},
			UnitCode: s.UnitCode,
			Color:    s.Color,
		}
		a, err := loader.Load(ctx, src)
		if err != nil {
			appLog.Error("sample refresh failed", err, "id", s.ID)
			continue
		}
		p.ApplySample(s.ID, a)
	}
}
