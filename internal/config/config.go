package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	// DeleteAfterProcessing gates removal of the source object once its
	// metadata has been logged.
	DeleteAfterProcessing bool
	Targets               string
	LogFormat             string
	LogLevel              string
	Endpoint              string
}

func Load() (Config, error) {
	cfg := Config{
		DeleteAfterProcessing: true,
		Targets:               strings.TrimSpace(os.Getenv("TARGETS")),
		LogFormat:             strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))),
		LogLevel:              strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		Endpoint:              os.Getenv("AWS_ENDPOINT"),
	}

	if v := strings.TrimSpace(os.Getenv("DELETE_AFTER_PROCESSING")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DELETE_AFTER_PROCESSING %q: %w", v, err)
		}
		cfg.DeleteAfterProcessing = b
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = LogFormatText
	case LogFormatText, LogFormatJSON:
	default:
		return Config{}, fmt.Errorf("unsupported LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}
