package cli

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/studydeck/internal/config"
	"github.com/asteroid-belt/studydeck/internal/llm"
	"github.com/asteroid-belt/studydeck/internal/log"
	"github.com/asteroid-belt/studydeck/internal/telemetry"
	"github.com/asteroid-belt/studydeck/internal/tui"
	"github.com/asteroid-belt/studydeck/internal/tui/design"
	"github.com/asteroid-belt/studydeck/pkg/version"
)

// runTUI executes the TUI when no subcommand is specified.
func runTUI(cmd *cobra.Command, args []string) error {
	if deck == nil && !config.IsConfigError(startErr) {
		if startErr == nil {
			return fmt.Errorf("studydeck is not initialized")
		}
		return startErr
	}

	printBanner()

	if cfg != nil {
		paths := config.GetPaths(cfg)
		log.Printf("\n\U0001F4C1 Base directory: %s\n", cfg.BaseDir)
		log.Printf("\U0001F4C1 Credentials: %s\n", paths.Credentials)
		log.Printf("\U0001F4C1 Log file: %s\n", filepath.Join(cfg.BaseDir, log.FileName))
		log.Printf("\U0001F5C4  Storage backend: %s\n", cfg.Storage.Backend)

		if cfg.GitHub.Token != "" {
			log.Println("\U0001F511 GitHub token: configured")
		} else {
			log.Println("\U0001F511 GitHub token: not set (set GITHUB_TOKEN for private notes and higher rate limits)")
		}

		if llm.IsConfigured(cfg.LLM) {
			log.Println("\U0001F393 Tutor: enabled")
		} else {
			log.Println("\U0001F393 Tutor: disabled (set OPENROUTER_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY)")
		}
	}

	if config.IsConfigError(startErr) {
		log.Printf("\n⚠️  %v\n", startErr)
	}

	if telemetry.IsEnabled() {
		log.Println("\n\U0001F4CA Telemetry: ON (set STUDYDECK_TELEMETRY_TRACKING_ENABLED=false to disable)")
		if deck != nil {
			log.Printf("   Anon ID: %s\n", deck.DB.GetOrCreateTrackingID())
		}
	} else {
		log.Println("\n\U0001F4CA Telemetry: OFF")
	}

	log.Println("\n\U0001F4DA Launching StudyDeck TUI...")
	log.Println("   Press tab to switch views, f1 for help, q to quit")

	// The TUI owns the terminal from here on.
	log.Detach()

	return tui.Run(tui.Options{
		Config:    cfg,
		App:       deck,
		StartErr:  startErr,
		Telemetry: telemetryClient,
	})
}

func printBanner() {
	logo := lipgloss.NewStyle().Foreground(lipgloss.Color(design.LogoColorPrimary)).Bold(true).Render(design.Logo)
	tagline := lipgloss.NewStyle().Foreground(lipgloss.Color(design.LogoColorAccent)).Render("   " + design.Tagline)
	fmt.Println(logo)
	fmt.Println(tagline)
	fmt.Printf("   Version: %s\n", version.Short())
}
