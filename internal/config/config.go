// Package config provides configuration loading and validation for
// Archeon. Configuration is environment-driven, with an optional .env
// file loaded at startup.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment leaves a knob unset.
const (
	DefaultCommandPrefix = "!"
	DefaultYtdlpPath     = "yt-dlp"
	DefaultFfmpegPath    = "ffmpeg"
)

// Config holds everything the bot needs to start.
type Config struct {
	// DiscordToken authenticates the gateway connection. Required.
	DiscordToken string
	// GeminiAPIKey authenticates chat generation. Required.
	GeminiAPIKey string
	// GeminiModel overrides the default model identifier.
	GeminiModel string
	// CommandPrefix introduces every text command.
	CommandPrefix string
	// OperatorUserID is the user who receives confidential tickets.
	// Ticket commands are rejected when unset.
	OperatorUserID string
	// YtdlpPath is the media extractor executable.
	YtdlpPath string
	// FfmpegPath is the transcoder executable.
	FfmpegPath string
	// Debug enables debug-level logging.
	Debug bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; a missing file is
// not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		GeminiAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		CommandPrefix:  os.Getenv("COMMAND_PREFIX"),
		OperatorUserID: os.Getenv("OPERATOR_USER_ID"),
		YtdlpPath:      os.Getenv("YTDLP_PATH"),
		FfmpegPath:     os.Getenv("FFMPEG_PATH"),
		Debug:          os.Getenv("DEBUG") == "1",
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills unset optional fields.
func (c *Config) applyDefaults() {
	if c.CommandPrefix == "" {
		c.CommandPrefix = DefaultCommandPrefix
	}
	if c.YtdlpPath == "" {
		c.YtdlpPath = DefaultYtdlpPath
	}
	if c.FfmpegPath == "" {
		c.FfmpegPath = DefaultFfmpegPath
	}
}

// Validate checks that required fields are present and well formed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if strings.ContainsAny(c.CommandPrefix, " \t\n") {
		return fmt.Errorf("command prefix must not contain whitespace")
	}
	return nil
}
