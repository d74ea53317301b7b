package handler

import (
	"errors"
	"io"
	"net/http"

	"agency-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Notification is the gateway webhook endpoint. The gateway retries on
// anything but 2xx, so undecodable payloads get 400, signature failures get
// 401, and only transient local errors bubble up as 500 for a redelivery.
func (h *PaymentHandler) Notification(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	if err := h.paymentService.HandleNotification(ctx, body); err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedPayload):
			// a 4xx stops the gateway from redelivering a payload
			// that can never decode
			return echo.NewHTTPError(http.StatusBadRequest, "malformed payload")
		case errors.Is(err, service.ErrInvalidSignature):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
		default:
			return err
		}
	}

	return c.NoContent(http.StatusOK)
}
