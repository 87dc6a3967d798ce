// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/go-petr/vault-wallet/internal/accountrepo"
	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/internal/entryrepo"
	"github.com/go-petr/vault-wallet/internal/userrepo"
	"github.com/go-petr/vault-wallet/pkg/addresspkg"
	"github.com/go-petr/vault-wallet/pkg/dbpkg"
	"github.com/go-petr/vault-wallet/pkg/passpkg"
	"github.com/go-petr/vault-wallet/pkg/randompkg"
)

// SeedUser creates random User inside a test transaction.
func SeedUser(t *testing.T, tx dbpkg.SQLInterface) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(32))
	if err != nil {
		t.Fatalf("passpkg.Hash(randompkg.String(32)) returned error: %v", err)
	}

	arg := domain.CreateUserParams{
		Username:       randompkg.Owner(),
		HashedPassword: hashedPassword,
		FullName:       randompkg.String(10),
		Email:          randompkg.Email(),
	}

	userRepo := userrepo.NewRepoPGS(tx)
	user, err := userRepo.Create(context.Background(), arg)

	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user
}

// SeedAccount creates a zero-balance Account for the user inside a test
// transaction, with its sub-address derived from the given vault address.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, vaultAddress, username string) domain.Account {
	t.Helper()

	accountRepo := accountrepo.NewRepoPGS(tx)

	derive := func(ownerID uint64) (string, error) {
		return addresspkg.Derive(vaultAddress, ownerID)
	}

	account, err := accountRepo.Create(context.Background(), username, derive)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %v, derive) returned error: %v", username, err)
	}

	return account
}

// SeedAccountWithBalance creates an Account and credits it inside a test
// transaction.
func SeedAccountWithBalance(t *testing.T, tx dbpkg.SQLInterface, vaultAddress, username, balance string) domain.Account {
	t.Helper()

	account := SeedAccount(t, tx, vaultAddress, username)

	accountRepo := accountrepo.NewRepoPGS(tx)

	account, err := accountRepo.AddBalance(context.Background(), balance, account.ID)
	if err != nil {
		t.Fatalf("accountRepo.AddBalance(context.Background(), %v, %v) returned error: %v",
			balance, account.ID, err)
	}

	SeedEntry(t, tx, balance, account.ID)

	return account
}

// SeedEntry creates Entry inside a test transaction.
func SeedEntry(t *testing.T, tx dbpkg.SQLInterface, amount string, accountID int64) domain.Entry {
	t.Helper()

	entryRepo := entryrepo.NewRepoPGS(tx)

	entry, err := entryRepo.Create(context.Background(), amount, accountID)
	if err != nil {
		t.Fatalf("entryRepo.Create(context.Background(), %v, %v) returned error: %v",
			amount, accountID, err)
	}

	return entry
}
