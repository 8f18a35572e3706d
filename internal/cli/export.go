package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/export"
)

var exportDays int

var exportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Export your study data to an Excel workbook",
	Long: `Write progress, questions, activities and study history to an Excel
workbook with one sheet each.

Without a file name the workbook is written to ~/.studydeck/exports.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().IntVarP(&exportDays, "days", "d", export.DefaultHistoryDays, "Days of study history to include")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, userID, err := ensureReady(cmd.Context(), "export")
	if err != nil {
		return err
	}

	now := time.Now()
	target := ""
	if len(args) == 1 {
		target = args[0]
	} else {
		dir := config.GetPaths(a.Cfg).Exports
		if err := os.MkdirAll(dir, 0755); err != nil {
			return trackCLIError("export", fmt.Errorf("create exports directory: %w", err))
		}
		target = filepath.Join(dir, fmt.Sprintf("studydeck-%s.xlsx", now.Format("2006-01-02")))
	}
	if !strings.EqualFold(filepath.Ext(target), ".xlsx") {
		return trackCLIError("export", fmt.Errorf("invalid file name %q: want a .xlsx file", target))
	}

	data, err := export.Collect(cmd.Context(), a.DB, userID, now, exportDays)
	if err != nil {
		return trackCLIError("export", err)
	}
	if err := export.Save(target, data); err != nil {
		return trackCLIError("export", err)
	}
	telemetryClient.TrackExported(len(data.Questions), len(data.Activities), len(data.Sessions))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d questions, %d activities and %d study days to %s\n",
		len(data.Questions), len(data.Activities), len(data.Sessions), target)
	return nil
}
