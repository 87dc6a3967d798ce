package watcherservice

import (
	"context"
	"errors"
	"testing"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/pkg/errorspkg"
	"github.com/go-petr/vault-wallet/pkg/randompkg"
	"github.com/golang/mock/gomock"
)

func TestHandle(t *testing.T) {
	t.Parallel()

	vault := randompkg.StellarAddress()
	sender := randompkg.StellarAddress()

	account := domain.Account{
		ID:       42,
		Username: randompkg.Owner(),
		Balance:  "10.0000000",
	}

	deposit := domain.IncomingPayment{
		ID:          "123",
		PagingToken: "123-1",
		From:        sender,
		To:          vault,
		MuxedID:     42,
		HasMuxedID:  true,
		AssetType:   "native",
		Amount:      "25.0000000",
	}

	testCases := []struct {
		name       string
		payment    domain.IncomingPayment
		buildStubs func(repo *MockRepo, accounts *MockAccountsRepo)
		wantError  error
	}{
		{
			name:    "CreditsRoutableDeposit",
			payment: deposit,
			buildStubs: func(repo *MockRepo, accounts *MockAccountsRepo) {
				accounts.EXPECT().GetByID(gomock.Any(), int64(42)).Times(1).Return(account, nil)

				credited := account
				credited.Balance = "35.0000000"

				repo.EXPECT().
					Credit(gomock.Any(), domain.CreditDepositParams{
						VaultAddress: vault,
						PagingToken:  deposit.PagingToken,
						AccountID:    account.ID,
						Amount:       deposit.Amount,
					}).
					Times(1).
					Return(credited, nil)
			},
		},
		{
			name: "SkipsPaymentToOtherAccount",
			payment: func() domain.IncomingPayment {
				p := deposit
				p.To = randompkg.StellarAddress()
				return p
			}(),
			buildStubs: func(repo *MockRepo, accounts *MockAccountsRepo) {
				repo.EXPECT().SetCursor(gomock.Any(), vault, deposit.PagingToken).Times(1).Return(nil)
			},
		},
		{
			name: "SkipsNonNativeAsset",
			payment: func() domain.IncomingPayment {
				p := deposit
				p.AssetType = "credit_alphanum4"
				return p
			}(),
			buildStubs: func(repo *MockRepo, accounts *MockAccountsRepo) {
				repo.EXPECT().SetCursor(gomock.Any(), vault, deposit.PagingToken).Times(1).Return(nil)
			},
		},
		{
			name: "QuarantinesPaymentWithoutMuxedID",
			payment: func() domain.IncomingPayment {
				p := deposit
				p.HasMuxedID = false
				p.MuxedID = 0
				return p
			}(),
			buildStubs: func(repo *MockRepo, accounts *MockAccountsRepo) {
				repo.EXPECT().
					Quarantine(gomock.Any(), domain.QuarantineDepositParams{
						VaultAddress: vault,
						PagingToken:  deposit.PagingToken,
						From:         sender,
						To:           vault,
						MuxedID:      0,
						HasMuxedID:   false,
						AssetType:    deposit.AssetType,
						Amount:       deposit.Amount,
						Reason:       "no muxed id",
					}).
					Times(1).
					Return(nil)
			},
		},
		{
			name:    "QuarantinesUnknownAccount",
			payment: deposit,
			buildStubs: func(repo *MockRepo, accounts *MockAccountsRepo) {
				accounts.EXPECT().
					GetByID(gomock.Any(), int64(42)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)

				repo.EXPECT().
					Quarantine(gomock.Any(), domain.QuarantineDepositParams{
						VaultAddress: vault,
						PagingToken:  deposit.PagingToken,
						From:         sender,
						To:           vault,
						MuxedID:      42,
						HasMuxedID:   true,
						AssetType:    deposit.AssetType,
						Amount:       deposit.Amount,
						Reason:       "unknown account",
					}).
					Times(1).
					Return(nil)
			},
		},
		{
			name: "QuarantinesMalformedAmount",
			payment: func() domain.IncomingPayment {
				p := deposit
				p.Amount = "NaN"
				return p
			}(),
			buildStubs: func(repo *MockRepo, accounts *MockAccountsRepo) {
				accounts.EXPECT().GetByID(gomock.Any(), int64(42)).Times(1).Return(account, nil)

				repo.EXPECT().
					Quarantine(gomock.Any(), gomock.AssignableToTypeOf(domain.QuarantineDepositParams{})).
					Times(1).
					Return(nil)
			},
		},
		{
			name:    "AccountLookupErrorAbortsStream",
			payment: deposit,
			buildStubs: func(repo *MockRepo, accounts *MockAccountsRepo) {
				accounts.EXPECT().
					GetByID(gomock.Any(), int64(42)).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantError: errorspkg.ErrInternal,
		},
		{
			name:    "CreditErrorAbortsStream",
			payment: deposit,
			buildStubs: func(repo *MockRepo, accounts *MockAccountsRepo) {
				accounts.EXPECT().GetByID(gomock.Any(), int64(42)).Times(1).Return(account, nil)

				repo.EXPECT().
					Credit(gomock.Any(), gomock.AssignableToTypeOf(domain.CreditDepositParams{})).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantError: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repoMock := NewMockRepo(ctrl)
			accountsMock := NewMockAccountsRepo(ctrl)
			gatewayMock := NewMockGateway(ctrl)

			gatewayMock.EXPECT().VaultAddress().AnyTimes().Return(vault)
			tc.buildStubs(repoMock, accountsMock)

			service := New(repoMock, accountsMock, gatewayMock)

			err := service.Handle(context.Background(), tc.payment)

			if tc.wantError != nil {
				if !errors.Is(err, tc.wantError) {
					t.Fatalf("Handle() error = %v, want %v", err, tc.wantError)
				}

				return
			}

			if err != nil {
				t.Fatalf("Handle() returned unexpected error: %v", err)
			}
		})
	}
}

func TestRunResumesFromPersistedCursor(t *testing.T) {
	t.Parallel()

	vault := randompkg.StellarAddress()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := NewMockRepo(ctrl)
	accountsMock := NewMockAccountsRepo(ctrl)
	gatewayMock := NewMockGateway(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	gatewayMock.EXPECT().VaultAddress().AnyTimes().Return(vault)
	gatewayMock.EXPECT().LatestCursor(gomock.Any()).Times(1).Return("200-1", nil)

	repoMock.EXPECT().GetCursor(gomock.Any(), vault).Times(1).Return("100-1", nil)

	gatewayMock.EXPECT().
		StreamPayments(gomock.Any(), "100-1", gomock.Any()).
		Times(1).
		DoAndReturn(func(ctx context.Context, cursor string, handle func(domain.IncomingPayment) error) error {
			cancel()
			return ctx.Err()
		})

	service := New(repoMock, accountsMock, gatewayMock)

	if err := service.Run(ctx); err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if got := service.State(); got != StateStopped {
		t.Errorf("State() = %v, want %v", got, StateStopped)
	}
}

func TestRunRetriesCursorStorageFailure(t *testing.T) {
	t.Parallel()

	vault := randompkg.StellarAddress()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := NewMockRepo(ctrl)
	gatewayMock := NewMockGateway(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	gatewayMock.EXPECT().VaultAddress().AnyTimes().Return(vault)

	gomock.InOrder(
		repoMock.EXPECT().GetCursor(gomock.Any(), vault).Return("", errorspkg.ErrInternal),
		repoMock.EXPECT().GetCursor(gomock.Any(), vault).Return("100-1", nil),
	)

	gatewayMock.EXPECT().LatestCursor(gomock.Any()).Return("", nil)

	gatewayMock.EXPECT().
		StreamPayments(gomock.Any(), "100-1", gomock.Any()).
		DoAndReturn(func(ctx context.Context, cursor string, handle func(domain.IncomingPayment) error) error {
			cancel()
			return ctx.Err()
		})

	service := New(repoMock, NewMockAccountsRepo(ctrl), gatewayMock)

	if err := service.Run(ctx); err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if got := service.State(); got != StateStopped {
		t.Errorf("State() = %v, want %v", got, StateStopped)
	}
}
