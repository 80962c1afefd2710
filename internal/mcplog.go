package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

var (
	mcpLog     = slog.New(slog.DiscardHandler)
	mcpLogOnce sync.Once
)

// InitMCPLogging routes MCP tool logging to a file in the cache directory.
// The stdio transport owns stdout and stderr carries the protocol peer's
// noise, so a file is the only place tool activity can go.
func InitMCPLogging(config *Config) {
	mcpLogOnce.Do(func() {
		if !config.MCPLogEnabled {
			return
		}

		logDir := filepath.Join(xdg.CacheHome, "ytqa")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return
		}
		logPath := filepath.Join(logDir, "mcp.log")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return
		}

		mcpLog = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	})
}
