package main

import (
	"os"
	"os/signal"
	"syscall"

	"futurebound/config"
	"futurebound/database"
	"futurebound/logger"
	"futurebound/routers"
	"futurebound/utils"
)

func main() {
	if err := logger.Init(os.Getenv("APP_ENV")); err != nil {
		panic(err)
	}
	defer logger.Sync()

	config.LoadConfig()
	database.ConnectDb()

	scheduler, err := utils.InitializeScheduler(config.AppConfig.ReconcileSchedule)
	if err != nil {
		logger.Log.Fatalw("failed to start scheduler", "error", err)
	}

	app := routers.NewApp(config.AppConfig, false)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Log.Info("shutting down")
		<-scheduler.Stop().Done()
		_ = app.Shutdown()
	}()

	logger.Log.Infow("server is running", "port", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		logger.Log.Fatalw("server stopped", "error", err)
	}
}
