package userservice

import (
	"context"
	"errors"
	"testing"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/pkg/errorspkg"
	"github.com/go-petr/vault-wallet/pkg/passpkg"
	"github.com/go-petr/vault-wallet/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
)

func TestCreate(t *testing.T) {
	t.Parallel()

	username := randompkg.Owner()
	password := randompkg.String(10)
	fullname := randompkg.Owner()
	email := randompkg.Email()

	user := domain.User{
		Username: username,
		FullName: fullname,
		Email:    email,
	}

	testCases := []struct {
		name       string
		buildStubs func(repo *MockRepo, accounts *MockAccountCreator)
		wantError  error
	}{
		{
			name: "OK",
			buildStubs: func(repo *MockRepo, accounts *MockAccountCreator) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.AssignableToTypeOf(domain.CreateUserParams{})).
					Times(1).
					DoAndReturn(func(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
						if err := passpkg.Check(password, arg.HashedPassword); err != nil {
							t.Errorf("passpkg.Check(%v, %v) returned error: %v", password, arg.HashedPassword, err)
						}

						got := user
						got.HashedPassword = arg.HashedPassword

						return got, nil
					})

				accounts.EXPECT().
					Create(gomock.Any(), username).
					Times(1).
					Return(domain.Account{ID: 1, Username: username}, nil)
			},
		},
		{
			name: "UsernameAlreadyExists",
			buildStubs: func(repo *MockRepo, accounts *MockAccountCreator) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.AssignableToTypeOf(domain.CreateUserParams{})).
					Times(1).
					Return(domain.User{}, domain.ErrUsernameAlreadyExists)
			},
			wantError: domain.ErrUsernameAlreadyExists,
		},
		{
			name: "AccountCreationError",
			buildStubs: func(repo *MockRepo, accounts *MockAccountCreator) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.AssignableToTypeOf(domain.CreateUserParams{})).
					Times(1).
					Return(user, nil)

				accounts.EXPECT().
					Create(gomock.Any(), username).
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
			accountsMock := NewMockAccountCreator(ctrl)
			tc.buildStubs(repoMock, accountsMock)

			service := New(repoMock, accountsMock)

			got, err := service.Create(context.Background(), username, password, fullname, email)

			if tc.wantError != nil {
				if !errors.Is(err, tc.wantError) {
					t.Fatalf("Create() error = %v, want %v", err, tc.wantError)
				}

				return
			}

			if err != nil {
				t.Fatalf("Create() returned unexpected error: %v", err)
			}

			want := NewUserWithoutPassword(user)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("user returned unexpected diff: %s", diff)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	username := randompkg.Owner()
	password := randompkg.String(10)

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		t.Fatalf("passpkg.Hash(%v) returned error: %v", password, err)
	}

	user := domain.User{
		Username:       username,
		HashedPassword: hashedPassword,
		FullName:       randompkg.Owner(),
		Email:          randompkg.Email(),
	}

	testCases := []struct {
		name       string
		password   string
		buildStubs func(repo *MockRepo)
		wantError  error
	}{
		{
			name:     "OK",
			password: password,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), username).Times(1).Return(user, nil)
			},
		},
		{
			name:     "WrongPassword",
			password: randompkg.String(10),
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), username).Times(1).Return(user, nil)
			},
			wantError: domain.ErrWrongPassword,
		},
		{
			name:     "UserNotFound",
			password: password,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					Get(gomock.Any(), username).
					Times(1).
					Return(domain.User{}, domain.ErrUserNotFound)
			},
			wantError: domain.ErrUserNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repoMock := NewMockRepo(ctrl)
			tc.buildStubs(repoMock)

			service := New(repoMock, NewMockAccountCreator(ctrl))

			got, err := service.CheckPassword(context.Background(), username, tc.password)

			if tc.wantError != nil {
				if !errors.Is(err, tc.wantError) {
					t.Fatalf("CheckPassword() error = %v, want %v", err, tc.wantError)
				}

				return
			}

			if err != nil {
				t.Fatalf("CheckPassword() returned unexpected error: %v", err)
			}

			want := NewUserWithoutPassword(user)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("user returned unexpected diff: %s", diff)
			}
		})
	}
}
