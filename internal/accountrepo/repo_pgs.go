// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/pkg/dbpkg"
	"github.com/go-petr/vault-wallet/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const nextIDQuery = `
SELECT nextval(pg_get_serial_sequence('accounts', 'id'))
`

const createQuery = `
INSERT INTO
    accounts (id, username, address, balance)
VALUES
    ($1, $2, $3, 0)
RETURNING id, username, address, balance, created_at
`

// Create allocates an account id, derives the account address from it and
// inserts the account with a zero balance. Creating an account for an
// owner that already has one returns ErrAccountAlreadyExists.
func (r *RepoPGS) Create(ctx context.Context, username string, derive func(ownerID uint64) (string, error)) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	var id int64
	if err := r.db.QueryRowContext(ctx, nextIDQuery).Scan(&id); err != nil {
		l.Error().Err(err).Send()
		return a, errorspkg.ErrInternal
	}

	address, err := derive(uint64(id))
	if err != nil {
		l.Error().Err(err).Send()
		return a, errorspkg.ErrInternal
	}

	row := r.db.QueryRowContext(ctx, createQuery, id, username, address)

	err = row.Scan(
		&a.ID,
		&a.Username,
		&a.Address,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_username_fkey":
				return a, domain.ErrOwnerNotFound
			case "accounts_username_key":
				return a, domain.ErrAccountAlreadyExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE id = $2
RETURNING id, username, address, balance, created_at
`

// AddBalance changes the account's balance and returns the changed account.
//
// The statement is the single critical section for debits: a negative
// amount that would overdraw the account trips the balance check
// constraint and no mutation occurs.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Address,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientBalance
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, username, address, balance, created_at
FROM accounts
WHERE username = $1
`

// Get returns the account owned by the given user.
func (r *RepoPGS) Get(ctx context.Context, username string) (domain.Account, error) {
	return r.scanOne(ctx, getQuery, username)
}

const getByIDQuery = `
SELECT
	id, username, address, balance, created_at
FROM accounts
WHERE id = $1
`

// GetByID returns the account with the given owner id.
func (r *RepoPGS) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	return r.scanOne(ctx, getByIDQuery, id)
}

func (r *RepoPGS) scanOne(ctx context.Context, query string, arg any) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Address,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
