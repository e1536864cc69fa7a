// Package config resolves server and client settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Server configures cmd/server.
type Server struct {
	Addr           string
	DBPath         string
	STTBackend     string
	DeepgramModel  string
	Language       string
	AnthropicModel string
	GeminiModel    string
	RequestTimeout time.Duration
}

// Client configures cmd/client.
type Client struct {
	ServerURL    string
	UserID       string
	KeysPath     string
	MaxRecording time.Duration
	StopDelay    time.Duration
	SampleRate   int
}

const (
	defaultAddr           = ":8081"
	defaultSTTBackend     = "deepgram"
	defaultDeepgramModel  = "nova-2"
	defaultLanguage       = "en-US"
	defaultAnthropicModel = "claude-3-5-sonnet-20241022"
	defaultGeminiModel    = "gemini-2.0-flash-exp"
	defaultTimeoutSeconds = 120

	defaultServerURL           = "http://localhost:8081"
	defaultUserID              = "local"
	defaultMaxRecordingSeconds = 300
	defaultStopDelayMs         = 1000
	defaultSampleRate          = 16000
)

// LoadServer resolves server configuration from environment variables and
// defaults. Invalid values fall back to the defaults.
func LoadServer() Server {
	cfg := Server{
		Addr:           envOrDefault("BRAINDUMP_ADDR", defaultAddr),
		DBPath:         envOrDefault("BRAINDUMP_DB_PATH", defaultPath("braindump.sqlite")),
		STTBackend:     strings.ToLower(envOrDefault("BRAINDUMP_STT_BACKEND", defaultSTTBackend)),
		DeepgramModel:  envOrDefault("DEEPGRAM_MODEL", defaultDeepgramModel),
		Language:       envOrDefault("STT_LANGUAGE", defaultLanguage),
		AnthropicModel: envOrDefault("ANTHROPIC_MODEL", defaultAnthropicModel),
		GeminiModel:    envOrDefault("GEMINI_MODEL", defaultGeminiModel),
		RequestTimeout: time.Duration(envOrDefaultInt("BRAINDUMP_REQUEST_TIMEOUT_SECONDS", defaultTimeoutSeconds)) * time.Second,
	}

	if cfg.STTBackend != "deepgram" && cfg.STTBackend != "google" {
		cfg.STTBackend = defaultSTTBackend
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeoutSeconds * time.Second
	}
	return cfg
}

// LoadClient resolves client configuration from environment variables and
// defaults. Invalid values fall back to the defaults.
func LoadClient() Client {
	cfg := Client{
		ServerURL:    strings.TrimRight(envOrDefault("BRAINDUMP_SERVER_URL", defaultServerURL), "/"),
		UserID:       envOrDefault("BRAINDUMP_USER", defaultUserID),
		KeysPath:     envOrDefault("BRAINDUMP_KEYS_PATH", defaultPath("keys.bolt")),
		MaxRecording: time.Duration(envOrDefaultInt("BRAINDUMP_MAX_RECORDING_SECONDS", defaultMaxRecordingSeconds)) * time.Second,
		StopDelay:    time.Duration(envOrDefaultInt("BRAINDUMP_STOP_DELAY_MS", defaultStopDelayMs)) * time.Millisecond,
		SampleRate:   envOrDefaultInt("BRAINDUMP_SAMPLE_RATE", defaultSampleRate),
	}

	if cfg.MaxRecording <= 0 {
		cfg.MaxRecording = defaultMaxRecordingSeconds * time.Second
	}
	if cfg.StopDelay < 0 {
		cfg.StopDelay = defaultStopDelayMs * time.Millisecond
	}
	if cfg.SampleRate < 8000 {
		cfg.SampleRate = defaultSampleRate
	}
	return cfg
}

func defaultPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "braindump", name)
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
