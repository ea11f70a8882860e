package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"termplan/internal/ics"
	"termplan/internal/model"
	"termplan/internal/schedule"
	"termplan/internal/urgency"
)

var inspectDate string

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE.ics",
	Short: "Decode an assignment calendar and show its milestones",
	Long: `Decode an iCalendar file the way an import would and print the
assignment, its urgency and the milestone active on --date (default today).

Examples:
  termplan inspect HIST101-Essay.ics
  termplan inspect HIST101-Essay.ics --date 2025-03-10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		a, err := ics.Decode(string(data), args[0])
		if err != nil {
			return err
		}

		loc := conf.Location()
		at := time.Now().In(loc)
		if inspectDate != "" {
			if at, err = parseDate(inspectDate, loc); err != nil {
				return err
			}
		}
		printAssignment(cmd.OutOrStdout(), a, at, loc)
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectDate, "date", "", "Date to resolve (YYYY-MM-DD or RFC 3339)")
	rootCmd.AddCommand(inspectCmd)
}

func printAssignment(w io.Writer, a *model.Assignment, at time.Time, loc *time.Location) {
	bold := color.New(color.Bold).SprintFunc()
	band := urgency.BandFor(a.End, at)
	bandColor := map[urgency.Band]*color.Color{
		urgency.BandHigh: color.New(color.FgRed, color.Bold),
		urgency.BandMed:  color.New(color.FgYellow),
		urgency.BandLow:  color.New(color.FgGreen),
	}[band]

	fmt.Fprintf(w, "%s (%s, %s)\n", bold(a.Name), a.UnitCode, a.Color)
	fmt.Fprintf(w, "  type:  %s\n", a.AssignmentTypeID)
	fmt.Fprintf(w, "  span:  %s → %s\n", a.Start.In(loc).Format(time.DateTime), a.End.In(loc).Format(time.DateTime))
	fmt.Fprintf(w, "  due:   %d days %s\n", urgency.DaysUntilDue(a, at), bandColor.Sprint(band))

	active := schedule.IndexForDate(a.Start, a.End, len(a.Events), at)
	for i, ev := range a.Events {
		marker := " "
		if i == active {
			marker = "▶"
		}
		status := string(ev.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(w, "  %s %d. %s → %s  %-9s %s\n", marker, i+1,
			ev.Start.In(loc).Format("02 Jan 15:04"), ev.End.In(loc).Format("02 Jan 15:04"), status, ev.Description)
	}
	if active < 0 {
		fmt.Fprintf(w, "  no milestone active on %s\n", at.Format(time.DateOnly))
	}
}
