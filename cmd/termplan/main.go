package main

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"termplan/internal/catalog"
	"termplan/internal/config"
	appLog "termplan/internal/log"
	"termplan/internal/model"
	"termplan/internal/planner"
)

const version = "0.1.0"

var (
	configPath string
	conf       *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "termplan",
	Short:   "Plan assignments across an academic term",
	Version: version,
	Long: `termplan breaks assignments into milestones, lays them out on a term
day grid, ranks them by urgency and exchanges them as iCalendar files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			appLog.Error("failed to load config", err, "config_path", configPath)
			return err
		}
		conf = cfg
		appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./termplan.yaml", "Path to config file")
}

func main() {
	defer appLog.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newPlanner builds the coordinating planner from the loaded config.
func newPlanner(cfg *config.Config) (*planner.Planner, error) {
	start, end, err := cfg.TermBounds()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return planner.New(planner.Options{
		Term:    model.NewTerm(start, end, cfg.Term.Detail),
		Catalog: cat,
		TZID:    cfg.ProjectTimezone,
	}), nil
}

// parseDate accepts YYYY-MM-DD (midnight in loc) or RFC 3339.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
