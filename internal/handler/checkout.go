package handler

import (
	"errors"
	"net/http"
	"strconv"

	"agency-checkout/internal/dto"
	"agency-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.checkoutService.CreateOrder(ctx, &req)
	if err != nil {
		var voucherErr *service.VoucherError
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "unknown service")
		case errors.As(err, &voucherErr):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, voucherErr.Reason)
		default:
			return err
		}
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *CheckoutHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.checkoutService.GetOrder(ctx, c.Param("orderID"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) RequestToken(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.checkoutService.RequestToken(ctx, c.Param("orderID"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrOrderNotPending):
			return echo.NewHTTPError(http.StatusConflict, "order is not awaiting payment")
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) ListServices(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.checkoutService.ListServices(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	result, err := h.checkoutService.ListOrders(ctx, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
