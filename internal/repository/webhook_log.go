package repository

import (
	"time"

	"agency-checkout/internal/model"

	"gorm.io/gorm"
)

type WebhookLogRepository interface {
	Exists(eventKey string) (bool, error)
	MarkProcessed(log *model.WebhookLog) error
}

type webhookLogRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookLogRepository(db *gorm.DB) WebhookLogRepository {
	return &webhookLogRepositoryImpl{db: db}
}

func (r *webhookLogRepositoryImpl) Exists(eventKey string) (bool, error) {
	var count int64
	err := r.db.Model(&model.WebhookLog{}).
		Where("event_key = ?", eventKey).
		Count(&count).Error

	return count > 0, err
}

func (r *webhookLogRepositoryImpl) MarkProcessed(log *model.WebhookLog) error {
	log.ProcessedAt = time.Now()
	return r.db.Create(log).Error
}
