package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/entrhq/coursepilot/pkg/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded runs, or the units of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		path, _ := cmd.Flags().GetString("db")
		if path == "" {
			var err error
			if path, err = history.DefaultPath(); err != nil {
				return err
			}
		}
		store, err := history.Open(ctx, path)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			events, err := store.RunEvents(ctx, args[0])
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Printf("No units recorded for run %s.\n", args[0])
				return nil
			}
			fmt.Println(eventsTable(events))
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.RecentRuns(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}
		fmt.Println(runsTable(runs))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of runs to show")
	historyCmd.Flags().String("db", "", "Path to the history database (default ~/.coursepilot/history.db)")
}

var headerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FFB3BA")).
	Bold(true)

func runsTable(runs []history.RunSummary) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("RUN", "STARTED", "SPEED", "TASKS", "PLAYED", "SKIPPED", "FAILED", "WAITED", "NOTE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})

	for _, r := range runs {
		var notes []string
		if r.Interrupted {
			notes = append(notes, "interrupted")
		}
		if r.FailedLessons > 0 {
			notes = append(notes, fmt.Sprintf("%d lesson(s) failed", r.FailedLessons))
		}
		if len(r.Unresolved) > 0 {
			notes = append(notes, "not found: "+strings.Join(r.Unresolved, ", "))
		}
		t.Row(
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			strconv.FormatFloat(r.Speed, 'g', -1, 64)+"x",
			strconv.Itoa(r.Tasks),
			strconv.Itoa(r.Played),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Failed),
			r.Watched.String(),
			strings.Join(notes, "; "),
		)
	}
	return t.String()
}

func eventsTable(events []history.UnitEvent) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "TASK", "LESSON", "UNIT", "STATUS", "WAIT", "ERROR").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})

	for _, e := range events {
		status := string(e.Status)
		if e.Unconfirmed {
			status += " (unconfirmed)"
		}
		wait := ""
		if e.Wait > 0 {
			wait = e.Wait.Round(time.Second).String()
		}
		t.Row(strconv.Itoa(e.Seq), e.Task, e.Lesson, e.Unit, status, wait, e.Error)
	}
	return t.String()
}
