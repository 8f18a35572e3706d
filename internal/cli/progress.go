package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/studydeck/internal/models"
	"github.com/asteroid-belt/studydeck/internal/progress"
	"github.com/asteroid-belt/studydeck/internal/tracker"
)

var progressCmd = &cobra.Command{
	Use:   "progress [subject]",
	Short: "Show syllabus completion per subject",
	Long: `Show the weighted syllabus completion for one subject, or for all three.

Each topic contributes a fifth of its weight for every box ticked among
theory, questions and the three revisions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgress,
}

var progressTopics bool

func init() {
	progressCmd.Flags().BoolVar(&progressTopics, "topics", false, "List every topic with its ticked boxes")
}

func runProgress(cmd *cobra.Command, args []string) error {
	subjects := models.Subjects
	if len(args) == 1 {
		subject, err := parseSubject(args[0])
		if err != nil {
			return trackCLIError("progress", err)
		}
		subjects = []models.Subject{subject}
	}

	a, userID, err := ensureReady(cmd.Context(), "progress")
	if err != nil {
		return err
	}
	return trackCLIError("progress", printProgress(cmd.Context(), cmd.OutOrStdout(), a.DB, userID, subjects, progressTopics))
}

// printProgress writes one bar per subject and, with topics set, the
// checklist of each topic.
func printProgress(ctx context.Context, w io.Writer, store tracker.Store, userID string, subjects []models.Subject, topics bool) error {
	t := tracker.New(store)
	for _, subject := range subjects {
		if _, err := t.Load(ctx, userID, subject); err != nil {
			return err
		}
		bar := NewProgressBar(20)
		bar.Update(t.Percent(), subject.Title())
		_, _ = fmt.Fprintln(w, bar.Render())

		if !topics {
			continue
		}
		syllabus := t.Syllabus()
		printTier(w, t, progress.TierXI, syllabus.ClassXI)
		printTier(w, t, progress.TierXII, syllabus.ClassXII)
		_, _ = fmt.Fprintln(w)
	}
	return nil
}

func printTier(w io.Writer, t *tracker.Tracker, tier progress.Tier, topics []progress.Topic) {
	_, _ = fmt.Fprintf(w, "  Class %s\n", tier)
	for _, topic := range topics {
		c := t.Checklist(progress.TopicKey(tier, topic.Name))
		var boxes strings.Builder
		for _, field := range models.ChecklistFields {
			if c.Get(field) {
				boxes.WriteString("■")
			} else {
				boxes.WriteString("□")
			}
		}
		_, _ = fmt.Fprintf(w, "    %s %-48s %s\n", boxes.String(), topic.Name, progress.Format(progress.TopicPercent(topic.Weight, c)))
	}
}

// ProgressBar renders a completion bar in the TUI tracker palette.
type ProgressBar struct {
	percent float64
	label   string
	width   int
}

// NewProgressBar creates a progress bar of width cells.
func NewProgressBar(width int) *ProgressBar {
	if width <= 0 {
		width = 15
	}
	return &ProgressBar{width: width}
}

// Update sets the percentage (0-100) and label.
func (p *ProgressBar) Update(percent float64, label string) {
	p.percent = max(0, min(100, percent))
	p.label = label
}

// Render returns the formatted bar.
func (p *ProgressBar) Render() string {
	filled := int(float64(p.width) * p.percent / 100)
	empty := p.width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	barStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	percentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B6B6B"))

	return labelStyle.Render(fmt.Sprintf("%-10s", p.label)) +
		barStyle.Render("["+bar+"]") +
		percentStyle.Render(" "+progress.Format(p.percent))
}
