package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rtzll/ytqa/internal"
)

// transcriptCmd fetches and prints a video's captions
var transcriptCmd = &cobra.Command{
	Use:   "transcript [URL or ID]",
	Short: "Fetch the captions of a YouTube video",
	Example: `  # Print captions to stdout
  ytqa transcript tAP1eZYEuKA
  ytqa transcript "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Copy captions to the clipboard
  ytqa transcript tAP1eZYEuKA --copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config)

		_, videoID := internal.ParseArg(args[0])
		transcript, err := app.Transcript(cmd.Context(), videoID)
		if err != nil {
			return err
		}

		copyToClipboard, _ := cmd.Flags().GetBool("copy")
		if copyToClipboard {
			if err := clipboard.WriteAll(transcript); err != nil {
				return fmt.Errorf("copying transcript to clipboard: %w", err)
			}
			if !config.Quiet {
				fmt.Println("Transcript copied to clipboard")
			}
			return nil
		}

		fmt.Println(transcript)
		return nil
	},
}

func init() {
	transcriptCmd.Flags().BoolP("copy", "c", false, "Copy transcript to the clipboard instead of printing")
	rootCmd.AddCommand(transcriptCmd)
}
