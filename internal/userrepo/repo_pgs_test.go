//go:build integration

package userrepo_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/internal/integrationtest"
	"github.com/go-petr/vault-wallet/internal/test"
	"github.com/go-petr/vault-wallet/internal/userrepo"
	"github.com/go-petr/vault-wallet/pkg/configpkg"
	"github.com/go-petr/vault-wallet/pkg/passpkg"
	"github.com/go-petr/vault-wallet/pkg/randompkg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "github.com/lib/pq"
)

var (
	dbDriver string
	dbSource string
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		tx := integrationtest.SetupTX(t, dbDriver, dbSource)

		hashedPassword, err := passpkg.Hash(randompkg.String(10))
		if err != nil {
			t.Fatalf("passpkg.Hash(randompkg.String(10)) returned error: %v", err)
		}

		arg := domain.CreateUserParams{
			Username:       randompkg.Owner(),
			HashedPassword: hashedPassword,
			FullName:       randompkg.String(10),
			Email:          randompkg.Email(),
		}

		userRepo := userrepo.NewRepoPGS(tx)

		got, err := userRepo.Create(context.Background(), arg)
		if err != nil {
			t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
		}

		want := domain.User{
			Username:       arg.Username,
			HashedPassword: arg.HashedPassword,
			FullName:       arg.FullName,
			Email:          arg.Email,
			CreatedAt:      time.Now().UTC(),
		}

		ignorePasswordChangedAt := cmpopts.IgnoreFields(domain.User{}, "PasswordChangedAt")
		if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(time.Second), ignorePasswordChangedAt); diff != "" {
			t.Errorf("user returned unexpected diff: %s", diff)
		}
	})

	t.Run("ErrUsernameAlreadyExists", func(t *testing.T) {
		tx := integrationtest.SetupTX(t, dbDriver, dbSource)
		user := test.SeedUser(t, tx)

		arg := domain.CreateUserParams{
			Username:       user.Username,
			HashedPassword: user.HashedPassword,
			FullName:       user.FullName,
			Email:          randompkg.Email(),
		}

		userRepo := userrepo.NewRepoPGS(tx)

		if _, err := userRepo.Create(context.Background(), arg); err != domain.ErrUsernameAlreadyExists {
			t.Errorf("userRepo.Create() error = %v, want %v", err, domain.ErrUsernameAlreadyExists)
		}
	})

	t.Run("ErrEmailAlreadyExists", func(t *testing.T) {
		tx := integrationtest.SetupTX(t, dbDriver, dbSource)
		user := test.SeedUser(t, tx)

		arg := domain.CreateUserParams{
			Username:       randompkg.Owner(),
			HashedPassword: user.HashedPassword,
			FullName:       user.FullName,
			Email:          user.Email,
		}

		userRepo := userrepo.NewRepoPGS(tx)

		if _, err := userRepo.Create(context.Background(), arg); err != domain.ErrEmailAlreadyExists {
			t.Errorf("userRepo.Create() error = %v, want %v", err, domain.ErrEmailAlreadyExists)
		}
	})
}

func TestGet(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		tx := integrationtest.SetupTX(t, dbDriver, dbSource)
		want := test.SeedUser(t, tx)

		userRepo := userrepo.NewRepoPGS(tx)

		got, err := userRepo.Get(context.Background(), want.Username)
		if err != nil {
			t.Fatalf("userRepo.Get(context.Background(), %v) returned error: %v", want.Username, err)
		}

		if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
			t.Errorf("user returned unexpected diff: %s", diff)
		}
	})

	t.Run("ErrUserNotFound", func(t *testing.T) {
		tx := integrationtest.SetupTX(t, dbDriver, dbSource)

		userRepo := userrepo.NewRepoPGS(tx)

		if _, err := userRepo.Get(context.Background(), randompkg.Owner()); err != domain.ErrUserNotFound {
			t.Errorf("userRepo.Get() error = %v, want %v", err, domain.ErrUserNotFound)
		}
	})
}
