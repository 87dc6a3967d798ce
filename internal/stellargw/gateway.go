// Package stellargw adapts the Stellar network (through a Horizon server)
// to the interfaces consumed by the payment and watcher services.
package stellargw

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/pkg/addresspkg"
	"github.com/rs/zerolog"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/protocols/horizon/operations"
	"github.com/stellar/go/txnbuild"
)

// Signer provides the vault's signing authority. Injected so key custody
// can be swapped or rotated without touching the gateway.
type Signer interface {
	Address() string
	Sign(networkPassphrase string, tx *txnbuild.Transaction) (*txnbuild.Transaction, error)
}

// VaultKey is a Signer backed by an in-memory vault keypair.
type VaultKey struct {
	full *keypair.Full
}

// NewVaultKey parses the vault's secret seed.
func NewVaultKey(secretSeed string) (*VaultKey, error) {
	full, err := keypair.ParseFull(secretSeed)
	if err != nil {
		return nil, err
	}

	return &VaultKey{full: full}, nil
}

// Address returns the vault's public address.
func (k *VaultKey) Address() string {
	return k.full.Address()
}

// Sign signs the transaction with the vault key.
func (k *VaultKey) Sign(networkPassphrase string, tx *txnbuild.Transaction) (*txnbuild.Transaction, error) {
	return tx.Sign(networkPassphrase, k.full)
}

// Gateway is the Horizon-backed network gateway.
type Gateway struct {
	client            horizonclient.ClientInterface
	signer            Signer
	networkPassphrase string
	txTimeout         time.Duration
}

// New returns a Gateway for the given Horizon URL.
func New(horizonURL, networkPassphrase string, signer Signer, timeout time.Duration) *Gateway {
	client := &horizonclient.Client{
		HorizonURL: horizonURL,
		HTTP:       &http.Client{Timeout: timeout},
	}
	client.SetHorizonTimeout(timeout)

	return &Gateway{
		client:            client,
		signer:            signer,
		networkPassphrase: networkPassphrase,
		txTimeout:         timeout,
	}
}

// NewWithClient returns a Gateway using the provided Horizon client.
func NewWithClient(client horizonclient.ClientInterface, networkPassphrase string, signer Signer, timeout time.Duration) *Gateway {
	return &Gateway{
		client:            client,
		signer:            signer,
		networkPassphrase: networkPassphrase,
		txTimeout:         timeout,
	}
}

// VaultAddress returns the pooled account's public address.
func (g *Gateway) VaultAddress() string {
	return g.signer.Address()
}

// CheckDestination verifies that the destination account exists on the
// network. Muxed destinations are resolved to their underlying account,
// since Horizon only serves lookups for base G-addresses.
func (g *Gateway) CheckDestination(ctx context.Context, address string) error {
	l := zerolog.Ctx(ctx)

	base, err := addresspkg.BaseAddress(address)
	if err != nil {
		return domain.ErrInvalidDestination
	}

	_, err = g.client.AccountDetail(horizonclient.AccountRequest{AccountID: base})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return domain.ErrDestinationNotFound
		}

		l.Error().Err(err).Send()

		return err
	}

	return nil
}

// BuildPayment loads the vault account, builds a native-asset payment to
// the destination with the payer's muxed address as the operation source,
// signs it with the vault's authority and returns the envelope together
// with its hash. The transaction carries a time bound, so an unobserved
// submission cannot land after the bound expires.
func (g *Gateway) BuildPayment(ctx context.Context, sourceMuxed, destination, amount string) (domain.PreparedTx, error) {
	l := zerolog.Ctx(ctx)

	var prepared domain.PreparedTx

	vault, err := g.client.AccountDetail(horizonclient.AccountRequest{AccountID: g.signer.Address()})
	if err != nil {
		l.Error().Err(err).Send()
		return prepared, err
	}

	payment := txnbuild.Payment{
		Destination:   destination,
		Amount:        amount,
		Asset:         txnbuild.NativeAsset{},
		SourceAccount: sourceMuxed,
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &vault,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{&payment},
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(int64(g.txTimeout.Seconds())),
		},
	})
	if err != nil {
		l.Error().Err(err).Send()
		return prepared, err
	}

	tx, err = g.signer.Sign(g.networkPassphrase, tx)
	if err != nil {
		l.Error().Err(err).Send()
		return prepared, err
	}

	hash, err := tx.HashHex(g.networkPassphrase)
	if err != nil {
		l.Error().Err(err).Send()
		return prepared, err
	}

	envelope, err := tx.Base64()
	if err != nil {
		l.Error().Err(err).Send()
		return prepared, err
	}

	prepared.Hash = hash
	prepared.Envelope = envelope

	return prepared, nil
}

// Submit sends the signed envelope to the network and classifies the
// outcome. A response from Horizon rejecting the transaction is a
// rejection; anything that prevents observing a response (transport
// error, timeout, gateway failure) is unknown, never assumed failed.
func (g *Gateway) Submit(ctx context.Context, envelope string) (domain.SubmitOutcome, error) {
	l := zerolog.Ctx(ctx)

	_, err := g.client.SubmitTransactionXDR(envelope)
	if err == nil {
		return domain.SubmitConfirmed, nil
	}

	l.Error().Err(err).Send()

	var herr *horizonclient.Error
	if errors.As(err, &herr) {
		if herr.Problem.Status >= 400 && herr.Problem.Status < 500 && herr.Problem.Status != http.StatusRequestTimeout {
			return domain.SubmitRejected, err
		}

		return domain.SubmitUnknown, err
	}

	return domain.SubmitUnknown, err
}

// FindTransaction reports whether the transaction with the given hash has
// landed on the network.
func (g *Gateway) FindTransaction(ctx context.Context, hash string) (domain.TxLanding, error) {
	l := zerolog.Ctx(ctx)

	tx, err := g.client.TransactionDetail(hash)
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return domain.LandingNotFound, nil
		}

		l.Error().Err(err).Send()

		return domain.LandingNotFound, err
	}

	if tx.Successful {
		return domain.LandingSucceeded, nil
	}

	return domain.LandingFailed, nil
}

// StreamPayments tails the payments stream of the vault account starting
// after the given cursor, invoking handle for every incoming payment in
// network-commit order. A handler error aborts the stream and is returned;
// otherwise the call blocks until the context is cancelled.
func (g *Gateway) StreamPayments(ctx context.Context, cursor string, handle func(domain.IncomingPayment) error) error {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var handleErr error

	req := horizonclient.OperationRequest{
		ForAccount: g.signer.Address(),
		Cursor:     cursor,
		Order:      horizonclient.OrderAsc,
		Join:       "transactions",
	}

	err := g.client.StreamPayments(streamCtx, req, func(op operations.Operation) {
		payment, ok := op.(operations.Payment)
		if !ok {
			// Create/merge and path payment operations are not supported
			// deposit vehicles.
			return
		}

		if !payment.TransactionSuccessful {
			return
		}

		if handleErr = handle(incomingFromHorizon(payment)); handleErr != nil {
			cancel()
		}
	})

	if handleErr != nil {
		return handleErr
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

// LatestCursor returns the paging token of the most recent payment on the
// vault account, marking the live edge of the stream.
func (g *Gateway) LatestCursor(ctx context.Context) (string, error) {
	l := zerolog.Ctx(ctx)

	page, err := g.client.Payments(horizonclient.OperationRequest{
		ForAccount: g.signer.Address(),
		Order:      horizonclient.OrderDesc,
		Limit:      1,
	})
	if err != nil {
		l.Error().Err(err).Send()
		return "", err
	}

	records := page.Embedded.Records
	if len(records) == 0 {
		return "", nil
	}

	return records[0].PagingToken(), nil
}

func incomingFromHorizon(p operations.Payment) domain.IncomingPayment {
	return domain.IncomingPayment{
		ID:          p.ID,
		PagingToken: p.PT,
		From:        p.From,
		To:          p.To,
		MuxedID:     p.ToMuxedID,
		HasMuxedID:  p.ToMuxed != "",
		AssetType:   p.Asset.Type,
		Amount:      p.Amount,
	}
}
