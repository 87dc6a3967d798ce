package paymentdelivery

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

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

func TestCreate(t *testing.T) {
	t.Parallel()

	username := randompkg.Owner()
	destination := randompkg.StellarAddress()
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	payment := domain.Payment{
		ID:          uuid.New(),
		AccountID:   1,
		Destination: destination,
		Amount:      "99.9990000",
		Status:      domain.PaymentSucceeded,
	}

	authType := middleware.AuthorizationTypeBearer
	duration := time.Minute

	type requestBody struct {
		Destination string `json:"destination"`
		Amount      string `json:"amount"`
	}

	body := requestBody{
		Destination: destination,
		Amount:      "99.999",
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request)
		buildStubs     func(paymentService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "OK",
			requestBody: body,
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(paymentService *MockService) {
				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Eq(username), gomock.Eq(destination), gomock.Eq("99.999")).
					Times(1).
					Return(payment, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "NoAuthorization",
			requestBody: body,
			setupAuth:   func(t *testing.T, r *http.Request) {},
			buildStubs: func(paymentService *MockService) {
				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "authorization header is not provided",
		},
		{
			name:        "MissingAmount",
			requestBody: requestBody{Destination: destination},
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(paymentService *MockService) {
				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount field is required",
		},
		{
			name:        "InvalidDestination",
			requestBody: body,
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(paymentService *MockService) {
				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Eq(username), gomock.Eq(destination), gomock.Eq("99.999")).
					Times(1).
					Return(domain.Payment{}, domain.ErrInvalidDestination)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidDestination.Error(),
		},
		{
			name:        "InvalidAmount",
			requestBody: body,
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(paymentService *MockService) {
				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Eq(username), gomock.Eq(destination), gomock.Eq("99.999")).
					Times(1).
					Return(domain.Payment{}, domain.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name:        "InsufficientBalance",
			requestBody: body,
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(paymentService *MockService) {
				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Eq(username), gomock.Eq(destination), gomock.Eq("99.999")).
					Times(1).
					Return(domain.Payment{}, domain.ErrInsufficientBalance)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrInsufficientBalance.Error(),
		},
		{
			name:        "DestinationNotFound",
			requestBody: body,
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(paymentService *MockService) {
				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Eq(username), gomock.Eq(destination), gomock.Eq("99.999")).
					Times(1).
					Return(domain.Payment{}, domain.ErrDestinationNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrDestinationNotFound.Error(),
		},
		{
			name:        "SubmissionFailed",
			requestBody: body,
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(paymentService *MockService) {
				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Eq(username), gomock.Eq(destination), gomock.Eq("99.999")).
					Times(1).
					Return(domain.Payment{}, domain.ErrSubmissionFailed)
			},
			wantStatusCode: http.StatusBadGateway,
			wantError:      domain.ErrSubmissionFailed.Error(),
		},
		{
			name:        "SubmissionUnknown",
			requestBody: body,
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(paymentService *MockService) {
				unknown := payment
				unknown.Status = domain.PaymentUnknown

				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Eq(username), gomock.Eq(destination), gomock.Eq("99.999")).
					Times(1).
					Return(unknown, domain.ErrSubmissionUnknown)
			},
			wantStatusCode: http.StatusAccepted,
			wantError:      domain.ErrSubmissionUnknown.Error(),
		},
		{
			name:        "InternalServerError",
			requestBody: body,
			setupAuth: func(t *testing.T, r *http.Request) {
				middleware.AddAuthorization(t, r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(paymentService *MockService) {
				paymentService.EXPECT().
					Pay(gomock.Any(), gomock.Eq(username), gomock.Eq(destination), gomock.Eq("99.999")).
					Times(1).
					Return(domain.Payment{}, errors.New("unexpected"))
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

			paymentService := NewMockService(ctrl)
			paymentHandler := NewHandler(paymentService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.POST("/payments", paymentHandler.Create)

			tc.buildStubs(paymentService)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			tc.setupAuth(t, req)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, want %v", got, tc.wantStatusCode)
			}

			if tc.wantError != "" {
				var res web.Response
				if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
					t.Fatalf("Decoding response body error: %v", err)
				}

				if res.Error != tc.wantError {
					t.Errorf("res.Error = %v, want %v", res.Error, tc.wantError)
				}
			}
		})
	}
}
