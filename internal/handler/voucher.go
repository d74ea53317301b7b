package handler

import (
	"net/http"

	"agency-checkout/internal/dto"
	"agency-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type VoucherHandler struct {
	voucherService service.VoucherService
}

func NewVoucherHandler(voucherService service.VoucherService) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
	}
}

// Validate checks a voucher against a subtotal without redeeming it; the
// order form calls this as the visitor types.
func (h *VoucherHandler) Validate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ValidateVoucherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	voucher, discount, reason, err := h.voucherService.Validate(ctx, req.Code, req.Subtotal)
	if err != nil {
		return err
	}

	if reason != "" {
		return c.JSON(http.StatusOK, &dto.ValidateVoucherResponse{
			Valid:  false,
			Reason: reason,
		})
	}

	return c.JSON(http.StatusOK, &dto.ValidateVoucherResponse{
		Valid:    true,
		Code:     voucher.Code,
		Discount: discount,
	})
}
