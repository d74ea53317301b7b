package dto

import "agency-checkout/internal/pricing"

type CheckoutRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=128"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,min=8,max=20"`
	ServiceSlug  string `json:"service_slug" validate:"required"`
	Subtotal     int64  `json:"subtotal" validate:"required,gt=0"`
	Fee          int64  `json:"fee" validate:"gte=0"`
	ShippingCost int64  `json:"shipping_cost" validate:"gte=0"`
	VoucherCode  string `json:"voucher_code"`
	Notes        string `json:"notes" validate:"max=512"`
}

type CheckoutResponse struct {
	OrderID      string        `json:"order_id"`
	Status       string        `json:"status"`
	Quote        pricing.Quote `json:"quote"`
	SnapToken    string        `json:"snap_token,omitempty"`
	RedirectURL  string        `json:"redirect_url,omitempty"`
	WhatsAppLink string        `json:"whatsapp_link,omitempty"`
}

type TokenResponse struct {
	OrderID     string `json:"order_id"`
	SnapToken   string `json:"snap_token"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type ValidateVoucherRequest struct {
	Code     string `json:"code" validate:"required"`
	Subtotal int64  `json:"subtotal" validate:"required,gt=0"`
}

type ValidateVoucherResponse struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
	Code     string `json:"code,omitempty"`
	Discount int64  `json:"discount,omitempty"`
}

type OrderResponse struct {
	OrderID     string        `json:"order_id"`
	Status      string        `json:"status"`
	ServiceType string        `json:"service_type"`
	Quote       pricing.Quote `json:"quote"`
	Payment     *PaymentInfo  `json:"payment,omitempty"`
}

type PaymentInfo struct {
	Purpose     string `json:"purpose"`
	Status      string `json:"status"`
	GrossAmount int64  `json:"gross_amount"`
	PaymentType string `json:"payment_type,omitempty"`
}

type ServiceResponse struct {
	ID          uint   `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	ServiceType string `json:"service_type"`
	BasePrice   int64  `json:"base_price"`
	PriceLabel  string `json:"price_label"`
}

type UploadResponse struct {
	OrderID string   `json:"order_id"`
	URLs    []string `json:"urls"`
}
