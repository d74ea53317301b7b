package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	q := Calculate(QuoteInput{
		ServiceType: "project",
		Subtotal:    1_000_000,
		Discount:    100_000,
		Fee:         5_000,
	})

	assert.Equal(t, int64(900_000), q.DPP)
	assert.Equal(t, int64(99_000), q.PPN) // 11% of 900k
	assert.Equal(t, int64(1_004_000), q.GrandTotal)
	assert.Equal(t, int64(502_000), q.Deposit)
	assert.Equal(t, int64(502_000), q.Remaining)
}

func TestCalculatePPNRounding(t *testing.T) {
	// 11% of 45 = 4.95 -> 5
	q := Calculate(QuoteInput{ServiceType: "project", Subtotal: 45})
	assert.Equal(t, int64(5), q.PPN)

	// 11% of 50 = 5.5 -> rounds half up to 6
	q = Calculate(QuoteInput{ServiceType: "project", Subtotal: 50})
	assert.Equal(t, int64(6), q.PPN)
}

func TestCalculateDepositRounding(t *testing.T) {
	// grand total 111: deposit round(55.5) = 56, remaining 55
	q := Calculate(QuoteInput{ServiceType: "project", Subtotal: 100})
	require.Equal(t, int64(111), q.GrandTotal)
	assert.Equal(t, int64(56), q.Deposit)
	assert.Equal(t, int64(55), q.Remaining)
}

func TestCalculateServiceDeviceHasNoDeposit(t *testing.T) {
	q := Calculate(QuoteInput{ServiceType: ServiceTypeDevice, Subtotal: 350_000, ShippingCost: 20_000})
	assert.Zero(t, q.Deposit)
	assert.Equal(t, q.GrandTotal, q.Remaining)
}

func TestCalculateDiscountOverSubtotal(t *testing.T) {
	q := Calculate(QuoteInput{ServiceType: "project", Subtotal: 50_000, Discount: 80_000})
	assert.Equal(t, int64(50_000), q.Discount)
	assert.Zero(t, q.DPP)
	assert.Zero(t, q.PPN)
}

func TestCalculateNegativeInputsClamped(t *testing.T) {
	q := Calculate(QuoteInput{ServiceType: "project", Subtotal: -10, Discount: -5, Fee: -1, ShippingCost: -2})
	assert.Equal(t, Quote{ServiceType: "project"}, q)
}

func TestCalculateInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		in := QuoteInput{
			ServiceType:  []string{"project", ServiceTypeDevice, "retainer"}[rng.Intn(3)],
			Subtotal:     rng.Int63n(50_000_000),
			Discount:     rng.Int63n(60_000_000),
			Fee:          rng.Int63n(100_000),
			ShippingCost: rng.Int63n(500_000),
		}
		q := Calculate(in)

		require.GreaterOrEqual(t, q.DPP, int64(0), "dpp: %+v", in)
		require.GreaterOrEqual(t, q.PPN, int64(0), "ppn: %+v", in)
		require.GreaterOrEqual(t, q.Deposit, int64(0), "deposit: %+v", in)
		require.GreaterOrEqual(t, q.Remaining, int64(0), "remaining: %+v", in)
		require.LessOrEqual(t, q.Deposit, q.GrandTotal, "deposit over grand: %+v", in)
		require.Equal(t, q.GrandTotal, q.Deposit+q.Remaining, "split: %+v", in)
		require.LessOrEqual(t, q.Discount, q.Subtotal, "discount over subtotal: %+v", in)
		require.Equal(t, q.GrandTotal, q.DPP+q.PPN+q.Fee+q.ShippingCost, "grand: %+v", in)
	}
}

func TestFormatIDR(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatIDR(0))
	assert.Equal(t, "Rp 950", FormatIDR(950))
	assert.Equal(t, "Rp 1.000", FormatIDR(1000))
	assert.Equal(t, "Rp 1.234.567", FormatIDR(1234567))
	assert.Equal(t, "Rp 12.500.000", FormatIDR(12500000))
	assert.Equal(t, "-Rp 45.000", FormatIDR(-45000))
}
