package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is read from the environment; flags override it.
type Config struct {
	LogLevel     string `env:"TRANSFER_LOG_LEVEL" envDefault:"info"`
	Actor        string `env:"TRANSFER_ACTOR"`
	Engine       string `env:"TRANSFER_ENGINE" envDefault:"expr"`
	ActivityDB   string `env:"TRANSFER_ACTIVITY_DB"`
	OTelEndpoint string `env:"TRANSFER_OTEL_ENDPOINT"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if verbose {
		parsed = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(parsed)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}
