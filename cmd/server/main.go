package main

import (
	"context"
	"fmt"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/config"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/handler"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/server"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/service"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/store"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("control-ingreso-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, cfg.Recognition.Dimension, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(ctx, storages, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	jobs := workers.NewWorkers(services, cfg, log)
	if err := jobs.Start(); err != nil {
		log.Fatal().Err(err).Msg("error starting background workers")
	}
	defer jobs.Stop()

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
