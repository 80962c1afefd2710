package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytqa/internal"
)

// serveCmd runs the HTTP API used by the browser extension
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Q&A HTTP API",
	Long: `Run the HTTP API that the browser extension talks to.

Endpoints:
  POST   /api/qa/auto              ask about a video, captions fetched automatically
  POST   /api/qa                   ask about a video with a caller-supplied transcript
  GET    /api/conversation/history conversation history for a video session
  DELETE /api/conversation/history clear a session's history
  GET    /health                   health and configuration status`,
	Example: `  # Serve on the configured address (default :8080)
  ytqa serve

  # Serve on a specific address
  ytqa serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = config.ListenAddr
		}

		app := internal.NewApp(config)
		if !app.AIConfigured() {
			fmt.Println("Warning: OpenAI API key is not configured; Q&A endpoints will return 503")
		}

		server := internal.NewServer(app)
		return server.Run(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
