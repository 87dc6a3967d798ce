// Package paymentdelivery manages delivery layer of outgoing payments.
package paymentdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/vault-wallet/internal/domain"
	"github.com/go-petr/vault-wallet/internal/middleware"
	"github.com/go-petr/vault-wallet/pkg/errorspkg"
	"github.com/go-petr/vault-wallet/pkg/tokenpkg"
	"github.com/go-petr/vault-wallet/pkg/web"
)

// Service provides service layer interface needed by payment delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package paymentdelivery
type Service interface {
	Pay(ctx context.Context, username, destination, amount string) (domain.Payment, error)
}

// Handler facilitates payment delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns payment handler.
func NewHandler(ps Service) *Handler {
	return &Handler{service: ps}
}

type paymentData struct {
	Payment domain.Payment `json:"payment"`
}

type createRequest struct {
	Destination string `json:"destination" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

// Create handles http request to send a payment from the authorized
// user's sub-account to an external address.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthorizationPayloadKey).(*tokenpkg.Payload)

	payment, err := h.service.Pay(ctx, authPayload.Username, req.Destination, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDestination),
			errors.Is(err, domain.ErrInvalidAmount):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case errors.Is(err, domain.ErrInsufficientBalance):
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		case errors.Is(err, domain.ErrDestinationNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case errors.Is(err, domain.ErrSubmissionFailed):
			gctx.JSON(http.StatusBadGateway, web.Error(err))
			return
		case errors.Is(err, domain.ErrSubmissionUnknown):
			// The debit is kept and the payment is reconciled later.
			gctx.JSON(http.StatusAccepted, web.Response{
				Data:  paymentData{Payment: payment},
				Error: err.Error(),
			})

			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: paymentData{Payment: payment}})
}
