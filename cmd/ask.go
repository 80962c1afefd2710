package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rtzll/ytqa/internal"
)

// askCmd asks a question about a single video from the terminal
var askCmd = &cobra.Command{
	Use:   "ask [URL or ID] [question]",
	Short: "Ask a question about a YouTube video",
	Long: `Ask a question about a YouTube video from the terminal.

Captions are fetched from YouTube and the question is answered with
OpenAI. Repeated questions about the same video share conversation
memory, so follow-ups can reference earlier answers.`,
	Example: `  # Ask about a video
  ytqa ask tAP1eZYEuKA "What is the main argument?"
  ytqa ask "https://www.youtube.com/watch?v=tAP1eZYEuKA" "Who is interviewed?"

  # Follow-up in a named session
  ytqa ask tAP1eZYEuKA "What evidence supports it?" --session research

  # Start over
  ytqa ask tAP1eZYEuKA "Summarize the video" --clear-history`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIRequirements(config); err != nil {
			return err
		}
		if err := internal.HandleModelFlag(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		_, videoID := internal.ParseArg(args[0])
		session, _ := cmd.Flags().GetString("session")
		clearHistory, _ := cmd.Flags().GetBool("clear-history")

		ui := internal.NewUIManager(config.Verbose, config.Quiet)
		spinner := ui.NewSpinner("Thinking...")

		result, err := app.AnswerAuto(cmd.Context(), internal.AskRequest{
			VideoID:      videoID,
			Question:     args[1],
			SessionID:    session,
			ClearHistory: clearHistory,
		})
		spinner.Finish()
		if err != nil {
			return err
		}

		// Render markdown only when writing to a terminal
		if isatty.IsTerminal(os.Stdout.Fd()) {
			rendered, err := internal.RenderMarkdown(result.Answer)
			if err == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		fmt.Println(result.Answer)
		return nil
	},
}

func init() {
	internal.AddOpenAIFlags(askCmd)
	internal.AddSessionFlags(askCmd)
	rootCmd.AddCommand(askCmd)
}
