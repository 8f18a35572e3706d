package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/studydeck/internal/chat"
	"github.com/asteroid-belt/studydeck/internal/notes"
)

var (
	askImage string
	askModel string
	askFresh bool
	askCopy  bool
)

var askCmd = &cobra.Command{
	Use:   "ask <subject> <prompt...>",
	Short: "Ask the subject tutor",
	Long: `Send a message to the subject tutor and print the reply.

The conversation continues the subject's saved transcript, the same one
the TUI Tutor tab shows. Use --new to start over.

An image (a photo of a problem, a diagram) can be attached with --image.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askImage, "image", "", "Attach an image file")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "Model to use, e.g. openai/gpt-4o")
	askCmd.Flags().BoolVar(&askFresh, "new", false, "Clear the saved transcript first")
	askCmd.Flags().BoolVar(&askCopy, "copy", false, "Copy the reply to the clipboard")
}

func runAsk(cmd *cobra.Command, args []string) error {
	subject, err := parseSubject(args[0])
	if err != nil {
		return trackCLIError("ask", err)
	}
	prompt := strings.Join(args[1:], " ")
	if strings.TrimSpace(prompt) == "" && askImage == "" {
		return trackCLIError("ask", fmt.Errorf("invalid prompt: give a question or --image"))
	}

	a, userID, err := ensureReady(cmd.Context(), "ask")
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	relay := a.Relay()
	if askModel != "" {
		relay.SetModel(askModel)
	}

	if askFresh {
		if err := relay.Clear(ctx, userID, subject); err != nil {
			return trackCLIError("ask", err)
		}
	}
	transcript, err := relay.Load(ctx, userID, subject)
	if err != nil {
		return trackCLIError("ask", err)
	}

	var image *chat.Image
	if askImage != "" {
		f, err := os.Open(askImage)
		if err != nil {
			return trackCLIError("ask", fmt.Errorf("open image: %w", err))
		}
		defer func() { _ = f.Close() }()
		info, err := f.Stat()
		if err != nil {
			return trackCLIError("ask", fmt.Errorf("stat image: %w", err))
		}
		image = &chat.Image{Name: filepath.Base(askImage), Data: f, Length: info.Size()}
	}

	turns, saveErr := relay.Send(ctx, userID, subject, transcript, prompt, image)
	reply := turns[len(turns)-1]
	telemetryClient.TrackTutorMessageSent(string(subject), relay.Model(), turns[len(turns)-2].ImageURL != "", chat.IsErrorTurn(reply))

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, notes.RenderTerminal(reply.Content, 100))
	if askCopy {
		if err := chat.Copy(reply); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Could not copy to clipboard: %v\n", err)
		}
	}
	if saveErr != nil {
		return trackCLIError("ask", saveErr)
	}
	return nil
}
