package repository

import (
	"context"

	"agency-checkout/internal/model"

	"gorm.io/gorm"
)

type ServiceCatalogRepository interface {
	ListActive(ctx context.Context) ([]*model.Service, error)
	FindByID(ctx context.Context, id uint) (*model.Service, error)
	FindBySlug(ctx context.Context, slug string) (*model.Service, error)
}

type serviceCatalogRepoImpl struct {
	db *gorm.DB
}

func NewServiceCatalogRepository(db *gorm.DB) ServiceCatalogRepository {
	return &serviceCatalogRepoImpl{
		db: db,
	}
}

func (r *serviceCatalogRepoImpl) ListActive(ctx context.Context) ([]*model.Service, error) {
	var services []*model.Service
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&services).Error

	if err != nil {
		return nil, err
	}

	return services, nil
}

func (r *serviceCatalogRepoImpl) FindByID(ctx context.Context, id uint) (*model.Service, error) {
	var service model.Service
	err := r.db.WithContext(ctx).First(&service, id).Error
	if err != nil {
		return nil, err
	}

	return &service, nil
}

func (r *serviceCatalogRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.Service, error) {
	var service model.Service
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&service).Error

	if err != nil {
		return nil, err
	}

	return &service, nil
}
