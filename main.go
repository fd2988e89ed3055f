package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"RecipeHub-Backend/cmd/config"
	migration "RecipeHub-Backend/cmd/database/migrate"
	"RecipeHub-Backend/internal/utils"
	"RecipeHub-Backend/internal/utils/logger"
)

func main() {
	utils.LoadConfig()
	cfg := utils.Get()

	appLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		appLogger.Fatal("failed to connect database", "error", err)
	}

	if err := migration.Migrate(db); err != nil {
		appLogger.Fatal("failed to migrate database", "error", err)
	}
	appLogger.Info("database migration complete", "driver", cfg.DBDriver)

	app, err := config.NewApp(db, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("failed to build app", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		appLogger.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.AppPort); err != nil {
		appLogger.Fatal("server stopped", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
