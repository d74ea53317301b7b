package pricing

import "strconv"

// FormatIDR renders a whole-rupiah amount as "Rp 1.234.567". Negative
// amounts keep the sign in front of the currency symbol.
func FormatIDR(amount int64) string {
	prefix := "Rp "
	if amount < 0 {
		prefix = "-Rp "
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	return prefix + string(out)
}
