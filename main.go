package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"recipe-service/config"
	"recipe-service/database"
	"recipe-service/server"

	"github.com/pressly/goose/v3"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run: start, migrate or create-migration")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", "database/migrations/sqlite3", "Target directory for the new .sql file")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [... other options]")
		os.Exit(1)
	}

	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	switch *commandFlag {
	case "create-migration":
		goose.SetSequential(true)
		if err := database.CreateMigration(*dirFlag, *nameFlag); err != nil {
			logger.Error("Failed to create migration", zap.Error(err))
			os.Exit(1)
		}
		return
	case "start", "migrate":
	default:
		fmt.Printf("Unknown command %q\n", *commandFlag)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		if err := server.StartServer(cfg); err != nil {
			os.Exit(1)
		}
	case "migrate":
		dbConn, err := database.InitializeDatabase(context.Background(), cfg)
		if err != nil {
			logger.Error("Migration failed", zap.Error(err))
			os.Exit(1)
		}
		dbConn.Close()
	}
}
