// Package paymentservice manages business logic layer of outbound payments.
package paymentservice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/pkg/addresspkg"
	"github.com/go-petr/vault-wallet/pkg/amountpkg"
	"github.com/go-petr/vault-wallet/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by payment service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package paymentservice
type Repo interface {
	Reserve(ctx context.Context, arg domain.ReservePaymentParams) (domain.Payment, error)
	SetHash(ctx context.Context, id uuid.UUID, hash string) error
	Finalize(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, cause string) (domain.Payment, error)
	Refund(ctx context.Context, id uuid.UUID, cause string) (domain.Payment, error)
	ListUnsettled(ctx context.Context, pendingBefore time.Time) ([]domain.Payment, error)
}

// AccountService provides account access needed by payment service layer.
type AccountService interface {
	Get(ctx context.Context, username string) (domain.Account, error)
}

// Gateway provides the network operations needed by the payment service.
type Gateway interface {
	CheckDestination(ctx context.Context, address string) error
	BuildPayment(ctx context.Context, sourceMuxed, destination, amount string) (domain.PreparedTx, error)
	Submit(ctx context.Context, envelope string) (domain.SubmitOutcome, error)
	FindTransaction(ctx context.Context, hash string) (domain.TxLanding, error)
}

// Config tunes the payment service.
type Config struct {
	// SubmitWindow is how long after creation an unknown-outcome payment
	// can still land on the network. Past it, an absent transaction is
	// safe to refund because its time bound has expired.
	SubmitWindow time.Duration
}

// Service facilitates payment service layer logic.
type Service struct {
	repo     Repo
	accounts AccountService
	gateway  Gateway
	config   Config
}

// New returns payment service struct to manage outbound payments.
func New(pr Repo, as AccountService, gw Gateway, config Config) *Service {
	return &Service{
		repo:     pr,
		accounts: as,
		gateway:  gw,
		config:   config,
	}
}

// Pay validates the request, atomically reserves the amount from the
// payer's balance, submits a signed payment from the vault and settles
// the reservation according to the network outcome. Exactly one debit
// survives if and only if the submission succeeds; every failure path
// except the unknown outcome reverses the reservation before returning.
func (s *Service) Pay(ctx context.Context, username, destination, amount string) (domain.Payment, error) {
	l := zerolog.Ctx(ctx)

	var payment domain.Payment

	if !addresspkg.IsValidDestination(destination) {
		return payment, domain.ErrInvalidDestination
	}

	parsed, err := amountpkg.Parse(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return payment, domain.ErrInvalidAmount
	}

	account, err := s.accounts.Get(ctx, username)
	if err != nil {
		return payment, err
	}

	payment, err = s.repo.Reserve(ctx, domain.ReservePaymentParams{
		AccountID:   account.ID,
		Destination: destination,
		Amount:      amountpkg.String(parsed),
	})
	if err != nil {
		return payment, err
	}

	if err := s.gateway.CheckDestination(ctx, destination); err != nil {
		if _, refundErr := s.repo.Refund(ctx, payment.ID, err.Error()); refundErr != nil {
			l.Error().Err(refundErr).Str("payment", payment.ID.String()).Msg("refund failed")
			return payment, errorspkg.ErrInternal
		}

		if err == domain.ErrDestinationNotFound {
			return payment, err
		}

		return payment, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}

	prepared, err := s.gateway.BuildPayment(ctx, account.Address, destination, amountpkg.String(parsed))
	if err != nil {
		if _, refundErr := s.repo.Refund(ctx, payment.ID, err.Error()); refundErr != nil {
			l.Error().Err(refundErr).Str("payment", payment.ID.String()).Msg("refund failed")
			return payment, errorspkg.ErrInternal
		}

		return payment, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}

	// The hash is durable before the envelope leaves the process, so an
	// outcome lost to a crash or timeout can always be reconciled.
	if err := s.repo.SetHash(ctx, payment.ID, prepared.Hash); err != nil {
		if _, refundErr := s.repo.Refund(ctx, payment.ID, "failed to record tx hash"); refundErr != nil {
			l.Error().Err(refundErr).Str("payment", payment.ID.String()).Msg("refund failed")
		}

		return payment, errorspkg.ErrInternal
	}

	outcome, submitErr := s.gateway.Submit(ctx, prepared.Envelope)

	switch outcome {
	case domain.SubmitConfirmed:
		payment, err = s.repo.Finalize(ctx, payment.ID, domain.PaymentSucceeded, "")
		if err != nil {
			return payment, err
		}

		l.Info().
			Str("owner", username).
			Str("destination", destination).
			Str("amount", payment.Amount).
			Str("hash", prepared.Hash).
			Msg("payment submitted")

		return payment, nil

	case domain.SubmitRejected:
		payment, err = s.repo.Refund(ctx, payment.ID, submitErr.Error())
		if err != nil {
			l.Error().Err(err).Str("payment", payment.ID.String()).Msg("refund failed")
			return payment, errorspkg.ErrInternal
		}

		return payment, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, submitErr)

	default:
		// The network may have applied the transfer. Keep the debit and
		// let reconciliation settle it; refunding here could double-pay.
		payment, err = s.repo.Finalize(ctx, payment.ID, domain.PaymentUnknown, submitErr.Error())
		if err != nil {
			return payment, err
		}

		l.Warn().
			Str("payment", payment.ID.String()).
			Str("hash", prepared.Hash).
			Msg("submission outcome unknown")

		return payment, fmt.Errorf("%w: %v", domain.ErrSubmissionUnknown, submitErr)
	}
}

// ReconcileUnknown resolves payments whose submission outcome was not
// observed by asking the network for the recorded transaction hash. It
// also sweeps up pending payments stranded by a crash mid-submission:
// one with a recorded hash is resolved like an unknown outcome, one
// without a hash never produced an envelope and is refunded outright.
// It returns the number of payments settled.
func (s *Service) ReconcileUnknown(ctx context.Context) (int, error) {
	l := zerolog.Ctx(ctx)

	payments, err := s.repo.ListUnsettled(ctx, time.Now().Add(-s.config.SubmitWindow))
	if err != nil {
		return 0, err
	}

	settled := 0

	for _, p := range payments {
		if p.TxHash == "" {
			if _, err := s.repo.Refund(ctx, p.ID, "abandoned before submission"); err != nil {
				return settled, err
			}

			l.Info().Str("payment", p.ID.String()).Msg("stranded payment refunded")
			settled++

			continue
		}

		landing, err := s.gateway.FindTransaction(ctx, p.TxHash)
		if err != nil {
			l.Error().Err(err).Str("payment", p.ID.String()).Msg("reconciliation lookup failed")
			continue
		}

		switch landing {
		case domain.LandingSucceeded:
			if _, err := s.repo.Finalize(ctx, p.ID, domain.PaymentSucceeded, ""); err != nil {
				return settled, err
			}

			l.Info().Str("payment", p.ID.String()).Msg("unknown payment landed")
			settled++

		case domain.LandingFailed:
			if _, err := s.repo.Refund(ctx, p.ID, "transaction failed on network"); err != nil {
				return settled, err
			}

			l.Info().Str("payment", p.ID.String()).Msg("unknown payment failed, refunded")
			settled++

		case domain.LandingNotFound:
			if time.Since(p.CreatedAt) < s.config.SubmitWindow {
				continue
			}

			// The transaction's time bound has expired; it can no longer
			// be applied by the network.
			if _, err := s.repo.Refund(ctx, p.ID, "transaction expired unsubmitted"); err != nil {
				return settled, err
			}

			l.Info().Str("payment", p.ID.String()).Msg("unknown payment expired, refunded")
			settled++
		}
	}

	return settled, nil
}
