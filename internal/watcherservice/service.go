// Package watcherservice manages business logic layer of the payment watcher.
//
// The watcher is the single writer of the stream cursor. It consumes the
// vault account's payment stream strictly in network order, credits each
// routable deposit exactly once and quarantines everything it cannot
// route. It resumes from the persisted cursor, never from "now", so a
// payment that arrived while the process was down is never lost.
package watcherservice

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/pkg/amountpkg"
	"github.com/rs/zerolog"
)

// State reports what the watcher is currently doing.
type State int32

// Watcher states. CatchingUp and Live run the same handler; the
// distinction is only about stream origin.
const (
	StateCatchingUp State = iota
	StateLive
	StateStopped
)

// Repo provides data access layer interface needed by watcher service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package watcherservice
type Repo interface {
	GetCursor(ctx context.Context, vaultAddress string) (string, error)
	SetCursor(ctx context.Context, vaultAddress, pagingToken string) error
	Credit(ctx context.Context, arg domain.CreditDepositParams) (domain.Account, error)
	Quarantine(ctx context.Context, arg domain.QuarantineDepositParams) error
}

// AccountsRepo resolves muxed ids to accounts.
type AccountsRepo interface {
	GetByID(ctx context.Context, id int64) (domain.Account, error)
}

// Gateway provides the network operations needed by the watcher.
type Gateway interface {
	VaultAddress() string
	StreamPayments(ctx context.Context, cursor string, handle func(domain.IncomingPayment) error) error
	LatestCursor(ctx context.Context) (string, error)
}

const (
	nativeAssetType = "native"

	initialBackoff = time.Second
	maxBackoff     = time.Minute
)

// Service runs the inbound reconciliation loop for one vault address.
type Service struct {
	repo     Repo
	accounts AccountsRepo
	gateway  Gateway

	state    atomic.Int32
	liveEdge uint64
}

// New returns watcher service struct to manage inbound payments.
func New(r Repo, ar AccountsRepo, gw Gateway) *Service {
	return &Service{
		repo:     r,
		accounts: ar,
		gateway:  gw,
	}
}

// State returns the watcher's current state.
func (s *Service) State() State {
	return State(s.state.Load())
}

// Run blocks consuming the payment stream until the context is cancelled.
// Transient stream and cursor storage failures are retried indefinitely
// with capped exponential backoff, always resuming from the persisted
// cursor.
func (s *Service) Run(ctx context.Context) error {
	l := zerolog.Ctx(ctx)
	vault := s.gateway.VaultAddress()

	defer s.state.Store(int32(StateStopped))

	backoff := initialBackoff

	for {
		cursor, err := s.repo.GetCursor(ctx, vault)
		if err != nil {
			if ctx.Err() != nil {
				l.Info().Str("vault", vault).Msg("watcher shutting down")
				return nil
			}

			l.Error().Err(err).Str("vault", vault).Msg("cursor lookup failed")
		} else {
			s.state.Store(int32(StateCatchingUp))
			s.markLiveEdge(ctx)

			l.Info().Str("vault", vault).Str("cursor", cursor).Msg("watching payments")

			start := time.Now()

			err = s.gateway.StreamPayments(ctx, cursor, func(p domain.IncomingPayment) error {
				return s.Handle(ctx, p)
			})

			if ctx.Err() != nil {
				l.Info().Str("vault", vault).Msg("watcher shutting down")
				return nil
			}

			if err != nil {
				l.Error().Err(err).Str("vault", vault).Msg("payment stream interrupted")
			}

			if time.Since(start) > maxBackoff {
				backoff = initialBackoff
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// markLiveEdge records the newest payment's paging token so the watcher
// can tell replayed history from the live tail.
func (s *Service) markLiveEdge(ctx context.Context) {
	latest, err := s.gateway.LatestCursor(ctx)
	if err != nil || latest == "" {
		s.liveEdge = 0
		s.state.Store(int32(StateLive))

		return
	}

	edge, err := strconv.ParseUint(latest, 10, 64)
	if err != nil {
		s.liveEdge = 0
		s.state.Store(int32(StateLive))

		return
	}

	s.liveEdge = edge
}

// Handle processes a single incoming payment. It is executed sequentially
// per vault address; a returned error aborts the stream without advancing
// the cursor, so the payment is retried on resume.
func (s *Service) Handle(ctx context.Context, p domain.IncomingPayment) error {
	l := zerolog.Ctx(ctx)
	vault := s.gateway.VaultAddress()

	defer s.advanceState(p)

	// Outgoing traffic and third-party assets on the shared address are
	// recognized and discarded, not unroutable.
	if p.To != vault {
		return s.repo.SetCursor(ctx, vault, p.PagingToken)
	}

	if p.AssetType != nativeAssetType {
		l.Info().Str("id", p.ID).Str("asset", p.AssetType).Msg("skipping non-native deposit")
		return s.repo.SetCursor(ctx, vault, p.PagingToken)
	}

	if !p.HasMuxedID {
		l.Warn().Str("id", p.ID).Str("from", p.From).Msg("unroutable payment: no muxed id")
		return s.repo.Quarantine(ctx, quarantineParams(vault, p, "no muxed id"))
	}

	account, err := s.accounts.GetByID(ctx, int64(p.MuxedID))
	if err != nil {
		if err == domain.ErrAccountNotFound {
			l.Warn().Str("id", p.ID).Uint64("muxed_id", p.MuxedID).Msg("unroutable payment: unknown account")
			return s.repo.Quarantine(ctx, quarantineParams(vault, p, "unknown account"))
		}

		return err
	}

	if _, err := amountpkg.Parse(p.Amount); err != nil {
		l.Warn().Str("id", p.ID).Str("amount", p.Amount).Msg("unroutable payment: bad amount")
		return s.repo.Quarantine(ctx, quarantineParams(vault, p, "bad amount"))
	}

	credited, err := s.repo.Credit(ctx, domain.CreditDepositParams{
		VaultAddress: vault,
		PagingToken:  p.PagingToken,
		AccountID:    account.ID,
		Amount:       p.Amount,
	})
	if err != nil {
		return err
	}

	l.Info().
		Str("id", p.ID).
		Str("owner", credited.Username).
		Str("amount", p.Amount).
		Str("balance", credited.Balance).
		Msg("incoming payment credited")

	return nil
}

func (s *Service) advanceState(p domain.IncomingPayment) {
	if State(s.state.Load()) != StateCatchingUp {
		return
	}

	token, err := strconv.ParseUint(p.PagingToken, 10, 64)
	if err != nil || token >= s.liveEdge {
		s.state.Store(int32(StateLive))
	}
}

func quarantineParams(vault string, p domain.IncomingPayment, reason string) domain.QuarantineDepositParams {
	return domain.QuarantineDepositParams{
		VaultAddress: vault,
		PagingToken:  p.PagingToken,
		From:         p.From,
		To:           p.To,
		MuxedID:      int64(p.MuxedID),
		HasMuxedID:   p.HasMuxedID,
		AssetType:    p.AssetType,
		Amount:       p.Amount,
		Reason:       reason,
	}
}
