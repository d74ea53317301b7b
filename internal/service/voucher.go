package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agency-checkout/internal/model"
	"agency-checkout/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rejection reasons returned by Validate. The handler passes these through
// to the form untouched.
const (
	ReasonNotFound      = "voucher_not_found"
	ReasonInactive      = "voucher_inactive"
	ReasonExpired       = "voucher_expired"
	ReasonBelowMinSpend = "below_min_spend"
	ReasonUsageCap      = "usage_cap_reached"
)

type VoucherService interface {
	// Validate looks up a code and runs every predicate against the given
	// subtotal. A non-empty reason means the voucher was rejected.
	Validate(ctx context.Context, code string, subtotal int64) (voucher *model.Voucher, discount int64, reason string, err error)
}

type voucherServiceImpl struct {
	voucherRepo repository.VoucherRepository
	now         func() time.Time
}

func NewVoucherService(voucherRepo repository.VoucherRepository) VoucherService {
	return &voucherServiceImpl{
		voucherRepo: voucherRepo,
		now:         time.Now,
	}
}

func (s *voucherServiceImpl) Validate(ctx context.Context, code string, subtotal int64) (*model.Voucher, int64, string, error) {
	voucher, err := s.voucherRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ReasonNotFound, nil
		}
		return nil, 0, "", fmt.Errorf("find voucher: %w", err)
	}

	if reason := rejectionReason(voucher, subtotal, s.now()); reason != "" {
		return nil, 0, reason, nil
	}

	return voucher, DiscountFor(voucher, subtotal), "", nil
}

// rejectionReason runs the independent voucher predicates in order and
// returns the first that fails.
func rejectionReason(v *model.Voucher, subtotal int64, now time.Time) string {
	if !v.Active {
		return ReasonInactive
	}
	if v.ExpiresAt != nil && now.After(*v.ExpiresAt) {
		return ReasonExpired
	}
	if subtotal < v.MinSpend {
		return ReasonBelowMinSpend
	}
	if v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit {
		return ReasonUsageCap
	}
	return ""
}

// DiscountFor computes the rupiah discount a voucher grants on a subtotal,
// clamped so the discount can never exceed the subtotal.
func DiscountFor(v *model.Voucher, subtotal int64) int64 {
	var discount int64
	switch v.Type {
	case "percent":
		discount = decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(v.Value)).
			Div(decimal.NewFromInt(100)).
			Round(0).IntPart()
	case "nominal":
		discount = v.Value
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}
