// Package main runs the payment watcher. It streams incoming network
// payments into the ledger and reconciles payments whose submission
// outcome was not observed.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/vault-wallet/internal/accountrepo"
	"github.com/go-petr/vault-wallet/internal/accountservice"
	"github.com/go-petr/vault-wallet/internal/depositrepo"
	"github.com/go-petr/vault-wallet/internal/middleware"
	"github.com/go-petr/vault-wallet/internal/paymentrepo"
	"github.com/go-petr/vault-wallet/internal/paymentservice"
	"github.com/go-petr/vault-wallet/internal/stellargw"
	"github.com/go-petr/vault-wallet/internal/watcherservice"
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
	defer db.Close()

	vaultKey, err := stellargw.NewVaultKey(config.VaultSecretKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot parse vault key")
	}

	gateway := stellargw.New(config.HorizonURL, config.NetworkPassphrase, vaultKey, config.GatewayTimeout)

	accountRepo := accountrepo.NewRepoPGS(db)
	depositRepo := depositrepo.NewRepoPGS(db)
	paymentRepo := paymentrepo.NewRepoPGS(db)

	accountService := accountservice.New(accountRepo, vaultKey.Address())
	paymentService := paymentservice.New(paymentRepo, accountService, gateway, paymentservice.Config{
		SubmitWindow: config.SubmitWindow,
	})

	watcher := watcherservice.New(depositRepo, accountRepo, gateway)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	errCh := make(chan error, 1)

	go func() {
		errCh <- watcher.Run(ctx)
	}()

	go reconcileLoop(ctx, paymentService, config.ReconcileInterval)

	logger.Info().Str("vault", vaultKey.Address()).Msg("PAYMENT WATCHER HAS STARTED")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("watcher stopped")
		}
	}
}

func reconcileLoop(ctx context.Context, ps *paymentservice.Service, interval time.Duration) {
	l := log.Ctx(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			settled, err := ps.ReconcileUnknown(ctx)
			if err != nil {
				l.Error().Err(err).Msg("reconcile failed")
				continue
			}

			if settled > 0 {
				l.Info().Int("settled", settled).Msg("reconciled unknown payments")
			}
		}
	}
}
