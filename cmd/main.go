package main

import (
	"context"
	"os"

	"github.com/desertthunder/vidvault/internal/repositories"
	"github.com/desertthunder/vidvault/internal/services"
	"github.com/desertthunder/vidvault/internal/session"
	"github.com/desertthunder/vidvault/internal/shared"
	"github.com/desertthunder/vidvault/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	users := repositories.NewUserRepository(db)
	sessions := session.NewManager(config.Session.Path, users)
	catalog := services.NewYouTubeService(
		config.Credentials.YouTube.BaseURL,
		config.Credentials.YouTube.APIKey,
		config.Credentials.YouTube.Region,
	)
	engine := tasks.NewLibraryEngine(users, sessions, catalog)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Engine:     engine,
		Catalog:    catalog,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "vidvault",
		Usage:    "Search the video catalog and curate playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
