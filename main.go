package main

import (
	"github.com/bugbash/gameserver/config"
	"github.com/bugbash/gameserver/logger"
	"github.com/bugbash/gameserver/persistence"
	"github.com/bugbash/gameserver/server"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Match history is optional; rooms themselves are memory-only either way.
	var db persistence.Database
	if cfg.Database.Enabled {
		db, err = persistence.NewGormPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		logger.Log.Info("Database connection successful.")
	} else {
		db = persistence.NewMemory()
		logger.Log.Info("Database disabled, keeping match history in memory.")
	}
	defer db.Close()

	gameServer := server.NewGameServer(cfg, db)

	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
