package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddOpenAIFlags adds flags related to OpenAI API functionality
func AddOpenAIFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "OpenAI model to use for answers")
	cmd.Flags().StringP("prompt", "p", "", "Custom system prompt (string or file path)")
}

// AddSessionFlags adds flags related to conversation sessions
func AddSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("session", "s", "", "Session ID for conversation memory (defaults to a shared per-video session)")
	cmd.Flags().Bool("clear-history", false, "Clear the session's conversation history before asking")
}

// HandlePromptFlag processes the --prompt flag to set custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	// Check if prompt flag was explicitly set
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}

	// If prompt is empty, nothing to do
	if prompt == "" {
		return nil
	}

	// Create a new PromptManager with the specified prompt
	app.SetPromptManager(NewPromptManager(app.config.ConfigDir, prompt))

	return nil
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}

// HandleModelFlag applies the --model flag to config when set
func HandleModelFlag(cmd *cobra.Command, config *Config) error {
	model, err := cmd.Flags().GetString("model")
	if err != nil {
		return fmt.Errorf("failed to get model flag: %w", err)
	}
	if model != "" {
		config.QAModel = model
	}
	return nil
}

// ValidateOpenAIRequirements validates the OpenAI API key from config
func ValidateOpenAIRequirements(config *Config) error {
	return ValidateOpenAIAPIKey(config.OpenAIAPIKey)
}
