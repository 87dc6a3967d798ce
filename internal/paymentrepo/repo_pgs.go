// Package paymentrepo manages repository layer of outbound payments.
//
// A reservation debits the balance, writes the audit entry and creates the
// pending payment row in one transaction; a refund reverses the debit the
// same way. The payment row keeps the transaction hash so an ambiguous
// submission can be reconciled instead of guessed at.
package paymentrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-petr/vault-wallet/internal/accountrepo"
	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/internal/entryrepo"
	"github.com/go-petr/vault-wallet/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates payment repository layer logic.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns payment RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{conn: db}
}

const createQuery = `
INSERT INTO
    payments (id, account_id, destination, amount, status)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, account_id, destination, amount, status, tx_hash, cause, created_at
`

// Reserve atomically debits the account and records the pending payment.
// Insufficient balance aborts the whole transaction with
// ErrInsufficientBalance and no mutation survives.
func (r *RepoPGS) Reserve(ctx context.Context, arg domain.ReservePaymentParams) (domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	var p domain.Payment

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return p, errorspkg.ErrInternal
	}

	defer func() {
		_ = tx.Rollback()
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	entryRepo := entryrepo.NewRepoPGS(tx)

	if _, err = accountRepo.AddBalance(ctx, "-"+arg.Amount, arg.AccountID); err != nil {
		return p, err
	}

	if _, err = entryRepo.Create(ctx, "-"+arg.Amount, arg.AccountID); err != nil {
		return p, err
	}

	row := tx.QueryRowContext(ctx, createQuery,
		uuid.New(),
		arg.AccountID,
		arg.Destination,
		arg.Amount,
		domain.PaymentPending,
	)

	if err = scanPayment(row, &p); err != nil {
		l.Error().Err(err).Send()
		return p, errorspkg.ErrInternal
	}

	if err = tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const setHashQuery = `
UPDATE payments
SET tx_hash = $1
WHERE id = $2
RETURNING id, account_id, destination, amount, status, tx_hash, cause, created_at
`

// SetHash records the transaction hash of the signed envelope before it is
// submitted, so the submission is identifiable whatever happens next.
func (r *RepoPGS) SetHash(ctx context.Context, id uuid.UUID, hash string) error {
	l := zerolog.Ctx(ctx)

	var p domain.Payment

	row := r.conn.QueryRowContext(ctx, setHashQuery, hash, id)
	if err := scanPayment(row, &p); err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return domain.ErrPaymentNotFound
		}

		return errorspkg.ErrInternal
	}

	return nil
}

const finalizeQuery = `
UPDATE payments
SET status = $1, cause = $2
WHERE id = $3
RETURNING id, account_id, destination, amount, status, tx_hash, cause, created_at
`

// Finalize sets the payment's terminal status without touching the balance.
func (r *RepoPGS) Finalize(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, cause string) (domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	var p domain.Payment

	row := r.conn.QueryRowContext(ctx, finalizeQuery, status, cause, id)
	if err := scanPayment(row, &p); err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrPaymentNotFound
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const lockPaymentQuery = `
SELECT id, account_id, destination, amount, status, tx_hash, cause, created_at
FROM payments
WHERE id = $1
FOR UPDATE
`

// Refund credits the reserved amount back, writes the reversing entry and
// marks the payment failed, all within one transaction. Refunding a
// payment that is no longer pending or unknown is a no-op, so a refund
// retried after a crash cannot double-credit.
func (r *RepoPGS) Refund(ctx context.Context, id uuid.UUID, cause string) (domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	var p domain.Payment

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return p, errorspkg.ErrInternal
	}

	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx, lockPaymentQuery, id)
	if err = scanPayment(row, &p); err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrPaymentNotFound
		}

		return p, errorspkg.ErrInternal
	}

	if p.Status != domain.PaymentPending && p.Status != domain.PaymentUnknown {
		return p, nil
	}

	accountRepo := accountrepo.NewRepoPGS(tx)
	entryRepo := entryrepo.NewRepoPGS(tx)

	if _, err = accountRepo.AddBalance(ctx, p.Amount, p.AccountID); err != nil {
		return p, err
	}

	if _, err = entryRepo.Create(ctx, p.Amount, p.AccountID); err != nil {
		return p, err
	}

	row = tx.QueryRowContext(ctx, finalizeQuery, domain.PaymentFailed, cause, id)
	if err = scanPayment(row, &p); err != nil {
		l.Error().Err(err).Send()
		return p, errorspkg.ErrInternal
	}

	if err = tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const listUnsettledQuery = `
SELECT id, account_id, destination, amount, status, tx_hash, cause, created_at
FROM payments
WHERE status = $1 OR (status = $2 AND created_at < $3)
ORDER BY created_at
`

// ListUnsettled returns payments awaiting reconciliation: every unknown
// payment, plus pending payments created before the given cutoff. A
// pending row older than the submission window means the process died
// mid-flight and no status write ever arrived.
func (r *RepoPGS) ListUnsettled(ctx context.Context, pendingBefore time.Time) ([]domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.conn.QueryContext(ctx, listUnsettledQuery, domain.PaymentUnknown, domain.PaymentPending, pendingBefore)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Payment{}

	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner, p *domain.Payment) error {
	var (
		txHash sql.NullString
		cause  sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.Destination,
		&p.Amount,
		&p.Status,
		&txHash,
		&cause,
		&p.CreatedAt,
	)
	if err != nil {
		return err
	}

	p.TxHash = txHash.String
	p.Cause = cause.String

	return nil
}
