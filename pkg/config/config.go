package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	envConfigPath    = "ORLEM_CONFIG"
	envServerBaseURL = "ORLEM_SERVER_URL"
	envSessionState  = "ORLEM_SESSION_STATE"

	defaultServerBaseURL = "http://localhost:8000"
)

// Config is the root runtime configuration loaded from config.json.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Session SessionConfig `json:"session,omitempty"`
	Audio   AudioConfig   `json:"audio,omitempty"`
	UI      UIConfig      `json:"ui,omitempty"`
	Logging LoggingConfig `json:"logging,omitempty"`
}

// ServerConfig points the client at one Orlem backend.
type ServerConfig struct {
	BaseURL               string `json:"base_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty"`
}

// SessionConfig controls where the durable session identifier lives.
type SessionConfig struct {
	StatePath string `json:"state_path,omitempty"`
}

// AudioConfig configures microphone capture and voice playback commands.
type AudioConfig struct {
	RecordCommand []string `json:"record_command,omitempty"`
	PlayCommand   []string `json:"play_command,omitempty"`
	Speak         bool     `json:"speak,omitempty"`
}

// UIConfig controls chat rendering behavior.
type UIConfig struct {
	// VerboseSystem surfaces system/debug notices in the chat timeline.
	VerboseSystem bool `json:"verbose_system,omitempty"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `json:"format,omitempty"`
	Level     string `json:"level,omitempty"`
	AddSource bool   `json:"add_source,omitempty"`
}

// LoadConfig resolves config.json, unmarshals it, and applies defaults and
// environment overrides. A missing config file is not an error; the client
// runs against the default local backend.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	configPath, err := findConfigPath()
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := json.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if baseURL := strings.TrimSpace(os.Getenv(envServerBaseURL)); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	if statePath := strings.TrimSpace(os.Getenv(envSessionState)); statePath != "" {
		cfg.Session.StatePath = statePath
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.BaseURL) == "" {
		cfg.Server.BaseURL = defaultServerBaseURL
	}
	if len(cfg.Audio.RecordCommand) == 0 {
		cfg.Audio.RecordCommand = []string{"arecord", "-q", "-f", "cd", "-t", "wav", "-"}
	}
	if len(cfg.Audio.PlayCommand) == 0 {
		cfg.Audio.PlayCommand = []string{"ffplay", "-autoexit", "-nodisp", "-loglevel", "quiet", "-"}
	}
}

// findConfigPath resolves the active config file location.
//
// Precedence is ORLEM_CONFIG first, then cwd-local fallback paths. An empty
// result means no config file is in play.
func findConfigPath() (string, error) {
	if value := strings.TrimSpace(os.Getenv(envConfigPath)); value != "" {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
		return "", fmt.Errorf("ORLEM_CONFIG does not point to a file: %s", value)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current working directory: %w", err)
	}

	candidates := []string{
		filepath.Join(cwd, "config.json"),
		filepath.Join(cwd, "config", "config.json"),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", nil
}
