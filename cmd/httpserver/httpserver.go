// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/vault-wallet/internal/accountdelivery"
	"github.com/go-petr/vault-wallet/internal/accountrepo"
	"github.com/go-petr/vault-wallet/internal/accountservice"
	"github.com/go-petr/vault-wallet/internal/middleware"
	"github.com/go-petr/vault-wallet/internal/paymentdelivery"
	"github.com/go-petr/vault-wallet/internal/paymentrepo"
	"github.com/go-petr/vault-wallet/internal/paymentservice"
	"github.com/go-petr/vault-wallet/internal/sessiondelivery"
	"github.com/go-petr/vault-wallet/internal/sessionrepo"
	"github.com/go-petr/vault-wallet/internal/sessionservice"
	"github.com/go-petr/vault-wallet/internal/stellargw"
	"github.com/go-petr/vault-wallet/internal/userdelivery"
	"github.com/go-petr/vault-wallet/internal/userrepo"
	"github.com/go-petr/vault-wallet/internal/userservice"
	"github.com/go-petr/vault-wallet/pkg/configpkg"
	"github.com/go-petr/vault-wallet/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	vaultKey, err := stellargw.NewVaultKey(config.VaultSecretKey)
	if err != nil {
		return nil, errors.New("cannot parse vault key")
	}

	gateway := stellargw.New(config.HorizonURL, config.NetworkPassphrase, vaultKey, config.GatewayTimeout)

	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	paymentRepo := paymentrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	accountService := accountservice.New(accountRepo, vaultKey.Address())
	userService := userservice.New(userRepo, accountService)
	paymentService := paymentservice.New(paymentRepo, accountService, gateway, paymentservice.Config{
		SubmitWindow: config.SubmitWindow,
	})

	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)
	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	userHandler := userdelivery.NewHandler(userService, sessionService)
	accountHandler := accountdelivery.NewHandler(accountService)
	paymentHandler := paymentdelivery.NewHandler(paymentService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(sessionService.TokenMaker))

	authRoutes.GET("/wallet", accountHandler.Get)
	authRoutes.POST("/wallet", accountHandler.Create)
	authRoutes.POST("/payments", paymentHandler.Create)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
