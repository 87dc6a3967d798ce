// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/pkg/addresspkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, username string, derive func(ownerID uint64) (string, error)) (domain.Account, error)
	Get(ctx context.Context, username string) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo         Repo
	vaultAddress string
}

// New returns account service struct to manage account business logic.
func New(ar Repo, vaultAddress string) *Service {
	return &Service{
		repo:         ar,
		vaultAddress: vaultAddress,
	}
}

// Create creates a zero-balance account for the owner with its muxed
// sub-address derived from the vault. Idempotent per owner: a second call
// returns the existing account.
func (s *Service) Create(ctx context.Context, username string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	derive := func(ownerID uint64) (string, error) {
		return addresspkg.Derive(s.vaultAddress, ownerID)
	}

	account, err := s.repo.Create(ctx, username, derive)
	if err != nil {
		if err == domain.ErrAccountAlreadyExists {
			l.Info().Str("owner", username).Msg("account already exists")
			return s.repo.Get(ctx, username)
		}

		return account, err
	}

	return account, nil
}

// Get returns the account owned by the given user.
func (s *Service) Get(ctx context.Context, username string) (domain.Account, error) {
	return s.repo.Get(ctx, username)
}
