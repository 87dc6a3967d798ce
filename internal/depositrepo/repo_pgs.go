// Package depositrepo manages the durable state of the payment watcher:
// the stream cursor, incoming credits and the quarantine of unroutable
// payments. Credits and cursor advances commit in a single database
// transaction, which is what makes replay from the persisted cursor
// exactly-once.
package depositrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/vault-wallet/internal/accountrepo"
	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/internal/entryrepo"
	"github.com/go-petr/vault-wallet/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates deposit repository layer logic.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns deposit RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{conn: db}
}

const getCursorQuery = `
SELECT paging_token
FROM cursors
WHERE vault_address = $1
`

// GetCursor returns the paging token of the last fully processed payment
// for the given vault address, or an empty string when the watcher has
// never run.
func (r *RepoPGS) GetCursor(ctx context.Context, vaultAddress string) (string, error) {
	l := zerolog.Ctx(ctx)

	var cursor string

	err := r.conn.QueryRowContext(ctx, getCursorQuery, vaultAddress).Scan(&cursor)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}

		l.Error().Err(err).Send()

		return "", errorspkg.ErrInternal
	}

	return cursor, nil
}

const setCursorQuery = `
INSERT INTO cursors (vault_address, paging_token)
VALUES ($1, $2)
ON CONFLICT (vault_address) DO UPDATE
SET paging_token = EXCLUDED.paging_token, updated_at = now()
`

// SetCursor advances the cursor without touching any balance. Used for
// recognized-and-discarded traffic on the shared vault address.
func (r *RepoPGS) SetCursor(ctx context.Context, vaultAddress, pagingToken string) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.conn.ExecContext(ctx, setCursorQuery, vaultAddress, pagingToken); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// Credit applies an incoming payment to the account's balance, writes the
// audit entry and advances the cursor, all within one transaction. A
// failure anywhere rolls back everything, so the payment is retried on
// resume and is never double-credited.
func (r *RepoPGS) Credit(ctx context.Context, arg domain.CreditDepositParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var account domain.Account

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return account, errorspkg.ErrInternal
	}

	defer func() {
		_ = tx.Rollback()
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	entryRepo := entryrepo.NewRepoPGS(tx)

	account, err = accountRepo.AddBalance(ctx, arg.Amount, arg.AccountID)
	if err != nil {
		return account, err
	}

	if _, err = entryRepo.Create(ctx, arg.Amount, arg.AccountID); err != nil {
		return account, err
	}

	if _, err = tx.ExecContext(ctx, setCursorQuery, arg.VaultAddress, arg.PagingToken); err != nil {
		l.Error().Err(err).Send()
		return account, errorspkg.ErrInternal
	}

	if err = tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return account, errorspkg.ErrInternal
	}

	return account, nil
}

const quarantineQuery = `
INSERT INTO unroutable_payments
    (vault_address, paging_token, from_address, to_address, muxed_id, asset_type, amount, reason)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Quarantine records an unroutable or malformed incoming payment and
// advances the cursor past it in the same transaction. The funds stay on
// the vault account and the row carries everything an operator needs to
// credit them manually.
func (r *RepoPGS) Quarantine(ctx context.Context, arg domain.QuarantineDepositParams) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		_ = tx.Rollback()
	}()

	muxedID := sql.NullInt64{Int64: arg.MuxedID, Valid: arg.HasMuxedID}

	_, err = tx.ExecContext(ctx, quarantineQuery,
		arg.VaultAddress,
		arg.PagingToken,
		arg.From,
		arg.To,
		muxedID,
		arg.AssetType,
		arg.Amount,
		arg.Reason,
	)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if _, err = tx.ExecContext(ctx, setCursorQuery, arg.VaultAddress, arg.PagingToken); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if err = tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const listUnroutableQuery = `
SELECT
	id, vault_address, paging_token, from_address, to_address, muxed_id, asset_type, amount, reason, created_at
FROM unroutable_payments
ORDER BY id
LIMIT $1 OFFSET $2
`

// ListUnroutable returns quarantined payments for operator review.
func (r *RepoPGS) ListUnroutable(ctx context.Context, limit, offset int32) ([]domain.UnroutablePayment, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.conn.QueryContext(ctx, listUnroutableQuery, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.UnroutablePayment{}

	for rows.Next() {
		var (
			u       domain.UnroutablePayment
			muxedID sql.NullInt64
		)

		err := rows.Scan(
			&u.ID,
			&u.VaultAddress,
			&u.PagingToken,
			&u.From,
			&u.To,
			&muxedID,
			&u.AssetType,
			&u.Amount,
			&u.Reason,
			&u.CreatedAt,
		)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		if muxedID.Valid {
			id := muxedID.Int64
			u.MuxedID = &id
		}

		items = append(items, u)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
