package utils

import (
	"log"

	"emviapp/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the shared structured logger. Booking mutations, webhook
// handling, and the notification worker all log through it.
var Logger *zap.Logger

// InitializeLogger builds the logger from the environment: JSON output in
// production, colored console output otherwise, with the level taken from
// LOG_LEVEL when set.
func InitializeLogger() {
	var cfg zap.Config

	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zapcore.InfoLevel
	if !config.IsProduction() {
		level = zapcore.DebugLevel
	}
	if raw := config.AppConfig.LogLevel; raw != "" {
		if parsed, err := zapcore.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	var err error
	Logger, err = cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(Logger)
}

// GetLogger returns the shared logger, building it on first use.
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}
