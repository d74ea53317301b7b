package pricing

import "github.com/shopspring/decimal"

// ServiceTypeDevice orders are paid in full on completion, so no deposit is
// collected up front.
const ServiceTypeDevice = "service_device"

var (
	ppnRate     = decimal.NewFromFloat(0.11)
	depositRate = decimal.NewFromFloat(0.5)
)

type QuoteInput struct {
	ServiceType  string
	Subtotal     int64
	Discount     int64
	Fee          int64
	ShippingCost int64
}

// Quote is the full amount snapshot stored on an order. All values are whole
// rupiah.
type Quote struct {
	ServiceType  string `json:"service_type"`
	Subtotal     int64  `json:"subtotal"`
	Discount     int64  `json:"discount"`
	DPP          int64  `json:"dpp"`
	PPN          int64  `json:"ppn"`
	Fee          int64  `json:"fee"`
	ShippingCost int64  `json:"shipping_cost"`
	GrandTotal   int64  `json:"grand_total"`
	Deposit      int64  `json:"deposit"`
	Remaining    int64  `json:"remaining"`
}

// Calculate derives the tax base, VAT, totals and deposit split:
//
//	dpp       = max(subtotal - discount, 0)
//	ppn       = round(dpp * 0.11)
//	grand     = dpp + ppn + fee + shipping
//	deposit   = 0 for service_device, else min(round(grand * 0.5), grand)
//	remaining = grand - deposit
func Calculate(in QuoteInput) Quote {
	subtotal := clampNonNegative(in.Subtotal)
	fee := clampNonNegative(in.Fee)
	shipping := clampNonNegative(in.ShippingCost)

	discount := clampNonNegative(in.Discount)
	if discount > subtotal {
		discount = subtotal
	}

	dpp := subtotal - discount
	ppn := roundMul(dpp, ppnRate)
	grand := dpp + ppn + fee + shipping

	var deposit int64
	if in.ServiceType != ServiceTypeDevice {
		deposit = roundMul(grand, depositRate)
		if deposit > grand {
			deposit = grand
		}
	}

	return Quote{
		ServiceType:  in.ServiceType,
		Subtotal:     subtotal,
		Discount:     discount,
		DPP:          dpp,
		PPN:          ppn,
		Fee:          fee,
		ShippingCost: shipping,
		GrandTotal:   grand,
		Deposit:      deposit,
		Remaining:    grand - deposit,
	}
}

// roundMul multiplies a rupiah amount by a rate and rounds half away from
// zero to a whole rupiah.
func roundMul(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
