package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/emre/termplan/internal/pkg/logger"
	"github.com/emre/termplan/internal/server"
)

// @title Termplan API
// @version 1.0
// @description Institutional scheduling engine: timetable placement, slot swaps and exam invigilation
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Local development overrides; absence of a .env file is fine.
	if err := godotenv.Load(); err == nil {
		logger.Debug().Msg("Loaded environment from .env file")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
