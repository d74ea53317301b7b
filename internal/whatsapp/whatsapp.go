package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"agency-checkout/internal/model"
	"agency-checkout/internal/pricing"
)

// OrderMessage builds the confirmation text a customer sends the agency on
// WhatsApp after checkout.
func OrderMessage(order *model.Order, customer *model.Customer, service *model.Service) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Halo, saya %s.\n", customer.Name)
	fmt.Fprintf(&b, "Saya baru saja membuat pesanan %s untuk layanan %s.\n\n", order.OrderID, service.Name)

	fmt.Fprintf(&b, "Subtotal: %s\n", pricing.FormatIDR(order.Subtotal))
	if order.Discount > 0 {
		fmt.Fprintf(&b, "Diskon (%s): -%s\n", order.VoucherCode, pricing.FormatIDR(order.Discount))
	}
	fmt.Fprintf(&b, "PPN 11%%: %s\n", pricing.FormatIDR(order.PPN))
	if order.ShippingCost > 0 {
		fmt.Fprintf(&b, "Ongkir: %s\n", pricing.FormatIDR(order.ShippingCost))
	}
	fmt.Fprintf(&b, "Total: %s\n", pricing.FormatIDR(order.GrandTotal))

	if order.Deposit > 0 {
		fmt.Fprintf(&b, "\nDP 50%%: %s\n", pricing.FormatIDR(order.Deposit))
		fmt.Fprintf(&b, "Sisa pembayaran: %s\n", pricing.FormatIDR(order.Remaining))
	}

	b.WriteString("\nMohon konfirmasinya, terima kasih!")
	return b.String()
}

// Link builds a wa.me deep link for the given phone and message text.
func Link(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(phone), url.QueryEscape(text))
}

// NormalizePhone strips everything but digits and rewrites a leading local
// zero to the Indonesian country code.
func NormalizePhone(phone string) string {
	var digits []byte
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}

	s := string(digits)
	if strings.HasPrefix(s, "0") {
		s = "62" + s[1:]
	}
	return s
}
