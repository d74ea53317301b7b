package repository

import (
	"context"
	"time"

	"agency-checkout/internal/model"

	"gorm.io/gorm"
)

type VoucherRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Voucher, error)
	// Redeem increments used_count, re-checking the usage cap inside the
	// UPDATE so concurrent checkouts cannot overspend a voucher.
	Redeem(ctx context.Context, tx *gorm.DB, code string) error
}

type voucherRepoImpl struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepoImpl{
		db: db,
	}
}

func (r *voucherRepoImpl) FindByCode(ctx context.Context, code string) (*model.Voucher, error) {
	var voucher model.Voucher
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&voucher).Error

	if err != nil {
		return nil, err
	}

	return &voucher, nil
}

func (r *voucherRepoImpl) Redeem(ctx context.Context, tx *gorm.DB, code string) error {
	result := tx.WithContext(ctx).Model(&model.Voucher{}).
		Where("code = ? AND active = ?", code, true).
		Where("usage_limit = 0 OR used_count < usage_limit").
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
