package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	ListenAddr       string
	QAModel          string
	OpenAIBaseURL    string
	OpenAIAPIKey     string
	AnswerTimeout    time.Duration
	CaptionTimeout   time.Duration
	CaptionLanguages []string
	MaxHistory       int
	HistoryTTL       time.Duration
	Prompt           string
	Verbose          bool
	Quiet            bool
	MCPLogEnabled    bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
}

//go:embed config.toml prompt.txt
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	// Check if file already exists
	if FileExists(filePath) {
		return nil
	}

	// Make sure the config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Read the embedded default file
	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	// Write the default file to the specified directory
	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Printf("Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompt checks if a prompt.txt file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultPrompt(configDir string) error {
	return ensureDefaultFile(configDir, "prompt.txt", "prompt template")
}

// InitConfig initializes Viper and loads configuration. A non-empty
// configFile overrides the XDG search path.
func InitConfig(configFile string) *Config {
	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "ytqa")
	dataDir := filepath.Join(xdg.DataHome, "ytqa")
	cacheDir := filepath.Join(xdg.CacheHome, "ytqa")

	// Initialize viper
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("qa_model", "gpt-4o-mini")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("answer_timeout", 2*time.Minute)
	v.SetDefault("caption_timeout", 30*time.Second)
	v.SetDefault("caption_languages", DefaultCaptionLanguages)
	v.SetDefault("max_history", 10)
	v.SetDefault("history_ttl", 24*time.Hour)
	v.SetDefault("prompt", "") // if empty will use default prompt template
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", false)

	// Set config name and paths
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	// Environment variables
	v.SetEnvPrefix("YTQA")
	v.AutomaticEnv()

	// Special case for OpenAI API Key - check both Viper and direct env var
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Create config struct from viper
	config := &Config{
		// User configurable settings
		ListenAddr:       v.GetString("listen_addr"),
		QAModel:          v.GetString("qa_model"),
		OpenAIBaseURL:    v.GetString("openai_base_url"),
		OpenAIAPIKey:     v.GetString("openai_api_key"),
		AnswerTimeout:    v.GetDuration("answer_timeout"),
		CaptionTimeout:   v.GetDuration("caption_timeout"),
		CaptionLanguages: v.GetStringSlice("caption_languages"),
		MaxHistory:       v.GetInt("max_history"),
		HistoryTTL:       v.GetDuration("history_ttl"),
		Prompt:           v.GetString("prompt"),
		Verbose:          v.GetBool("verbose"),
		Quiet:            v.GetBool("quiet"),
		MCPLogEnabled:    v.GetBool("mcp_log"),

		// Fixed XDG paths
		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

// MissingSettings lists required settings that are not configured
func (c *Config) MissingSettings() []string {
	var missing []string
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	return missing
}

// AIConfigured reports whether the AI backend has everything it needs
func (c *Config) AIConfigured() bool {
	return len(c.MissingSettings()) == 0
}
