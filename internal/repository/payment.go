package repository

import (
	"context"
	"time"

	"agency-checkout/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, txn *model.PaymentTransaction) error
	FindByID(ctx context.Context, id uint) (*model.PaymentTransaction, error)
	FindPendingByOrderID(ctx context.Context, orderID string) (*model.PaymentTransaction, error)
	FindPendingBefore(ctx context.Context, before time.Time, limit int) ([]*model.PaymentTransaction, error)
	SetSnapToken(ctx context.Context, id uint, token string) error
	MarkStatus(ctx context.Context, tx *gorm.DB, id uint, status, gatewayTxnID, paymentType string, paidAt *time.Time) error
	IncrementPollCount(ctx context.Context, id uint) error
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, tx *gorm.DB, txn *model.PaymentTransaction) error {
	return tx.WithContext(ctx).Create(txn).Error
}

func (r *paymentRepoImpl) FindByID(ctx context.Context, id uint) (*model.PaymentTransaction, error) {
	var txn model.PaymentTransaction
	err := r.db.WithContext(ctx).First(&txn, id).Error
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

func (r *paymentRepoImpl) FindPendingByOrderID(ctx context.Context, orderID string) (*model.PaymentTransaction, error) {
	var txn model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, "pending").
		Order("created_at DESC").
		First(&txn).Error

	if err != nil {
		return nil, err
	}

	return &txn, nil
}

func (r *paymentRepoImpl) FindPendingBefore(ctx context.Context, before time.Time, limit int) ([]*model.PaymentTransaction, error) {
	var txns []*model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", "pending", before).
		Limit(limit).
		Find(&txns).Error

	if err != nil {
		return nil, err
	}

	return txns, nil
}

func (r *paymentRepoImpl) SetSnapToken(ctx context.Context, id uint, token string) error {
	return r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"snap_token": token,
			"updated_at": time.Now(),
		}).Error
}

func (r *paymentRepoImpl) MarkStatus(ctx context.Context, tx *gorm.DB, id uint, status, gatewayTxnID, paymentType string, paidAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if gatewayTxnID != "" {
		updates["gateway_txn_id"] = gatewayTxnID
	}
	if paymentType != "" {
		updates["payment_type"] = paymentType
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}

	result := tx.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *paymentRepoImpl) IncrementPollCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"poll_count": gorm.Expr("poll_count + 1"),
			"updated_at": time.Now(),
		}).Error
}
