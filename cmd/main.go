package main

import (
	"context"
	"os"

	"github.com/desertthunder/igx/internal/services"
	"github.com/desertthunder/igx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		loadedConfig, err := shared.LoadConfig("config.toml")
		if err != nil {
			logger.Fatalf("config error: %v", err)
		}
		config = loadedConfig
	}
	config.ApplyEnv(os.Getenv)
	if err := config.Validate(); err != nil {
		logger.Fatalf("config error: %v", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	classifier := services.NewGeminiClassifier(services.GeminiOpts{
		APIKey:            config.Classifier.APIKey,
		Model:             config.Classifier.Model,
		BaseURL:           config.Classifier.BaseURL,
		RequestsPerSecond: config.Classifier.RequestsPerSecond,
		Timeout:           config.Classifier.Timeout(),
		Logger:            logger,
	})
	if config.Classifier.APIKey == "" {
		logger.Warn("no API key configured; every check will fail", "env", shared.APIKeyEnvVars)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Classifier: classifier,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "igx",
		Usage:    "Bulk-check whether Instagram usernames have a public profile",
		Version:  "0.1.0",
		Flags:    runner.flags(),
		Before:   runner.before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
