package accountdelivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/internal/middleware"
	"github.com/go-petr/vault-wallet/pkg/errorspkg"
	"github.com/go-petr/vault-wallet/pkg/randompkg"
	"github.com/go-petr/vault-wallet/pkg/tokenpkg"
	"github.com/go-petr/vault-wallet/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestGet(t *testing.T) {
	t.Parallel()

	username := randompkg.Owner()
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	account := domain.Account{
		ID:       1,
		Username: username,
		Address:  randompkg.StellarAddress(),
		Balance:  "100.0000000",
	}

	authType := middleware.AuthorizationTypeBearer
	duration := time.Minute

	testCases := []struct {
		name           string
		setupAuth      func(t *testing.T, r *http.Request)
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(data json.RawMessage)
	}{
		{
			name: "OK",
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data json.RawMessage) {
				var got struct {
					Account domain.Account `json:"account"`
				}
				if err := json.Unmarshal(data, &got); err != nil {
					t.Fatalf("Decoding response data error: %v", err)
				}

				if diff := cmp.Diff(account, got.Account); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:      "NoAuthorization",
			setupAuth: func(t *testing.T, r *http.Request) {},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "authorization header is not provided",
		},
		{
			name: "AccountNotFound",
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name: "InternalServerError",
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountService := NewMockService(ctrl)
			accountHandler := NewHandler(accountService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.GET("/wallet", accountHandler.Get)

			tc.buildStubs(accountService)

			req, err := http.NewRequest(http.MethodGet, "/wallet", nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			tc.setupAuth(t, req)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, want %v", got, tc.wantStatusCode)
			}

			var res struct {
				Data  json.RawMessage `json:"data"`
				Error string          `json:"error"`
			}
			if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantError != "" && res.Error != tc.wantError {
				t.Errorf("res.Error = %v, want %v", res.Error, tc.wantError)
			}

			if tc.checkData != nil {
				tc.checkData(res.Data)
			}
		})
	}
}

func TestCreateIsIdempotent(t *testing.T) {
	t.Parallel()

	username := randompkg.Owner()
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	account := domain.Account{
		ID:       1,
		Username: username,
		Address:  randompkg.StellarAddress(),
		Balance:  "0.0000000",
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountService := NewMockService(ctrl)
	accountService.EXPECT().
		Create(gomock.Any(), gomock.Eq(username)).
		Times(2).
		Return(account, nil)

	accountHandler := NewHandler(accountService)

	server := gin.New()
	server.Use(middleware.AuthMiddleware(tokenMaker))
	server.POST("/wallet", accountHandler.Create)

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodPost, "/wallet", nil)
		if err != nil {
			t.Fatalf("Creating request error: %v", err)
		}

		middleware.AddAuthorization(t, req, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)

		recorder := httptest.NewRecorder()
		server.ServeHTTP(recorder, req)

		if got := recorder.Code; got != http.StatusOK {
			t.Errorf("recorder.Code = %v, want %v", got, http.StatusOK)
		}

		var res web.Response
		if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
			t.Fatalf("Decoding response body error: %v", err)
		}

		if res.Error != "" {
			t.Errorf(`res.Error = %v, want ""`, res.Error)
		}
	}
}
