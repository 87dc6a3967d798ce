// Package main provides the API to manage users, wallet accounts and payments.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/go-petr/vault-wallet/cmd/httpserver"
	"github.com/go-petr/vault-wallet/internal/middleware"
	"github.com/go-petr/vault-wallet/pkg/configpkg"
	"github.com/go-petr/vault-wallet/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("WALLET API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
