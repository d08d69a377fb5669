package logger_test

import (
	"errors"

	"github.com/wonny/argus/pkg/config"
	"github.com/wonny/argus/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	// Load config
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	// Create logger (SSOT)
	log := logger.New(cfg)

	// Basic logging
	log.Debug("This won't appear (level is info)")
	log.Info("Application started")
	log.Warn("Cache disabled")
	log.Error("Failed to connect")

	// Formatted logging
	log.Infof("Loaded %d strategy tables", 7)
	log.Warnf("Retry attempt %d of %d", 3, 5)

	// Output:
	// (console output with timestamps)
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Add single field
	stratLog := log.WithField("strategy", "alpha")
	stratLog.Info("Analysis completed")

	// Add multiple fields
	simLog := log.WithFields(map[string]interface{}{
		"strategy": "alpha",
		"paths":    1000,
		"length":   50,
		"seed":     42,
	})
	simLog.Info("Simulation finished")

	// Output:
	// {"level":"info","strategy":"alpha","message":"Analysis completed",...}
	// {"level":"info","strategy":"alpha","paths":1000,"length":50,"seed":42,"message":"Simulation finished",...}
}

// Example_withError demonstrates error logging
func Example_withError() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Log with error
	err := errors.New("database connection timeout")
	log.WithError(err).Error("Failed to persist analysis run")

	// Combine error with fields
	log.WithError(err).
		WithFields(map[string]interface{}{
			"retry_count": 3,
			"timeout_ms":  5000,
		}).
		Error("Connection failed after retries")

	// Output:
	// {"level":"error","error":"database connection timeout","message":"Failed to persist analysis run",...}
	// {"level":"error","error":"database connection timeout","retry_count":3,"timeout_ms":5000,"message":"Connection failed after retries",...}
}

// Example_environments demonstrates different log formats
func Example_environments() {
	// Development: Pretty console logs
	devCfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "console",
	}
	devLog := logger.New(devCfg)
	devLog.Debug("Debugging ingest flow")
	devLog.Info("Request received")

	// Production: JSON logs
	prodCfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}
	prodLog := logger.New(prodCfg)
	prodLog.Info("Service started")
	prodLog.Warn("High memory usage detected")

	// Output:
	// (human-readable console output for development)
	// (machine-parseable JSON for production)
}
