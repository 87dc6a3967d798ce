package stellargw

import (
	"context"
	"testing"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/pkg/addresspkg"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/support/render/problem"
	"github.com/stretchr/testify/require"
)

const testPassphrase = "Test SDF Network ; September 2015"

func testGateway(t *testing.T, client horizonclient.ClientInterface) *Gateway {
	t.Helper()

	kp, err := keypair.Random()
	require.NoError(t, err)

	vaultKey, err := NewVaultKey(kp.Seed())
	require.NoError(t, err)

	return NewWithClient(client, testPassphrase, vaultKey, 0)
}

func TestCheckDestination(t *testing.T) {
	t.Parallel()

	dest, err := keypair.Random()
	require.NoError(t, err)

	notFound := &horizonclient.Error{
		Problem: problem.P{
			Type:   "https://stellar.org/horizon-errors/not_found",
			Title:  "Resource Missing",
			Status: 404,
		},
	}

	t.Run("PlainAddressLookedUpDirectly", func(t *testing.T) {
		t.Parallel()

		client := &horizonclient.MockClient{}
		client.On("AccountDetail", horizonclient.AccountRequest{AccountID: dest.Address()}).
			Return(hProtocol.Account{}, nil)

		gateway := testGateway(t, client)

		require.NoError(t, gateway.CheckDestination(context.Background(), dest.Address()))
		client.AssertExpectations(t)
	})

	t.Run("MuxedAddressLookedUpByBase", func(t *testing.T) {
		t.Parallel()

		muxed, err := addresspkg.Derive(dest.Address(), 42)
		require.NoError(t, err)

		// Horizon rejects account lookups for M-addresses, so the lookup
		// must use the underlying G-address.
		client := &horizonclient.MockClient{}
		client.On("AccountDetail", horizonclient.AccountRequest{AccountID: dest.Address()}).
			Return(hProtocol.Account{}, nil)

		gateway := testGateway(t, client)

		require.NoError(t, gateway.CheckDestination(context.Background(), muxed))
		client.AssertExpectations(t)
	})

	t.Run("MissingAccount", func(t *testing.T) {
		t.Parallel()

		client := &horizonclient.MockClient{}
		client.On("AccountDetail", horizonclient.AccountRequest{AccountID: dest.Address()}).
			Return(hProtocol.Account{}, notFound)

		gateway := testGateway(t, client)

		err := gateway.CheckDestination(context.Background(), dest.Address())
		require.ErrorIs(t, err, domain.ErrDestinationNotFound)
	})

	t.Run("MissingUnderlyingAccountOfMuxed", func(t *testing.T) {
		t.Parallel()

		muxed, err := addresspkg.Derive(dest.Address(), 7)
		require.NoError(t, err)

		client := &horizonclient.MockClient{}
		client.On("AccountDetail", horizonclient.AccountRequest{AccountID: dest.Address()}).
			Return(hProtocol.Account{}, notFound)

		gateway := testGateway(t, client)

		err = gateway.CheckDestination(context.Background(), muxed)
		require.ErrorIs(t, err, domain.ErrDestinationNotFound)
	})

	t.Run("MalformedAddress", func(t *testing.T) {
		t.Parallel()

		client := &horizonclient.MockClient{}

		gateway := testGateway(t, client)

		err := gateway.CheckDestination(context.Background(), "not-an-address")
		require.ErrorIs(t, err, domain.ErrInvalidDestination)
		client.AssertNotCalled(t, "AccountDetail")
	})
}
