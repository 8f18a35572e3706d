package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/timer"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Show recorded study time",
	Long: `Show study time recorded by the TUI timer.

Time is committed when a break starts or the timer is reset.`,
}

var timerTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's total",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := ensureReady(cmd.Context(), "timer.today")
		if err != nil {
			return err
		}
		total, err := a.StudyToday(cmd.Context(), userID)
		if err != nil {
			return trackCLIError("timer.today", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Studied today: %s\n", timer.FormatClock(total))
		return nil
	},
}

var historyDays int

var timerHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show daily totals for recent days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := ensureReady(cmd.Context(), "timer.history")
		if err != nil {
			return err
		}
		sessions, err := a.StudyHistory(cmd.Context(), userID, historyDays)
		if err != nil {
			return trackCLIError("timer.history", err)
		}
		printHistory(cmd.OutOrStdout(), sessions)
		return nil
	},
}

func init() {
	timerHistoryCmd.Flags().IntVarP(&historyDays, "days", "d", 7, "Number of days to show")
	timerCmd.AddCommand(timerTodayCmd, timerHistoryCmd)
}

// printHistory writes one line per day with a bar scaled to the longest day.
func printHistory(w io.Writer, sessions []models.StudySession) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(w, "No study time recorded.")
		return
	}
	var longest, total int64
	for _, s := range sessions {
		longest = max(longest, s.TotalStudyTime)
		total += s.TotalStudyTime
	}
	const width = 30
	for _, s := range sessions {
		n := 0
		if longest > 0 {
			n = int(s.TotalStudyTime * width / longest)
		}
		_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", s.SessionDate, timer.FormatClock(s.TotalStudyTime), strings.Repeat("▇", n))
	}
	_, _ = fmt.Fprintf(w, "  Total      %s\n", timer.FormatClock(total))
}
