package main

import (
	"context"
	"os"

	"github.com/yigit/judgeadmin/internal/pkg/logger"
	"github.com/yigit/judgeadmin/internal/server"
)

// @title Judge Admin API
// @version 1.0
// @description Administration backend for an online judge: problems, contests, judges, ratings and site content

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup functions log their own details
		logger.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if err := srv.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
