package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"termplan/internal/ics"
	"termplan/internal/planner"
)

var scheduleFlags struct {
	template string
	name     string
	unit     string
	color    string
	start    string
	end      string
	outDir   string
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule an assignment from a template and write it as .ics",
	Long: `Split the assignment span into one equal window per template milestone
and save the result as an iCalendar file.

Examples:
  termplan schedule --template essay --name "Essay 1" --unit HIST101 \
    --start 2025-03-03 --end 2025-03-24`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := conf.Location()
		start, err := parseDate(scheduleFlags.start, loc)
		if err != nil {
			return err
		}
		end, err := parseDate(scheduleFlags.end, loc)
		if err != nil {
			return err
		}

		p, err := newPlanner(conf)
		if err != nil {
			return err
		}
		a, _, err := p.Create(planner.CreateRequest{
			Name:     scheduleFlags.name,
			UnitCode: scheduleFlags.unit,
			Color:    scheduleFlags.color,
			TypeID:   scheduleFlags.template,
			Start:    start,
			End:      end,
		})
		if err != nil {
			return err
		}

		text, filename, err := p.Export(a)
		if err != nil {
			return err
		}
		outDir := scheduleFlags.outDir
		if outDir == "" {
			outDir = conf.ExportDir
		}
		path, err := ics.WriteDownload(outDir, filename, []byte(text))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d milestones, color %s\n", a.Name, len(a.Events), a.Color)
		for i, ev := range a.Events {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d. %-20s %s → %s\n", i+1, ev.Summary,
				ev.Start.In(loc).Format("Mon 02 Jan 15:04"), ev.End.In(loc).Format("Mon 02 Jan 15:04"))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	f := scheduleCmd.Flags()
	f.StringVar(&scheduleFlags.template, "template", "", "Assignment type id from the catalog")
	f.StringVar(&scheduleFlags.name, "name", "", "Assignment name (defaults to the template title)")
	f.StringVar(&scheduleFlags.unit, "unit", "", "Unit code")
	f.StringVar(&scheduleFlags.color, "color", "", "Palette color (random when empty)")
	f.StringVar(&scheduleFlags.start, "start", "", "Start date (YYYY-MM-DD or RFC 3339)")
	f.StringVar(&scheduleFlags.end, "end", "", "Due date (YYYY-MM-DD or RFC 3339)")
	f.StringVarP(&scheduleFlags.outDir, "out", "o", "", "Output directory (defaults to export_dir)")
	_ = scheduleCmd.MarkFlagRequired("template")
	_ = scheduleCmd.MarkFlagRequired("start")
	_ = scheduleCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(scheduleCmd)
}
