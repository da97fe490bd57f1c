package repository

import (
	"context"

	"gorm.io/gorm"

	"sevaportal/internal/model"
)

// ServiceRepository defines catalog persistence operations.
type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	FindByID(ctx context.Context, id uint) (*model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
	// ListByCategory returns services whose category matches exactly, in insertion order.
	ListByCategory(ctx context.Context, category string) ([]model.Service, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new catalog repository.
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

// Create creates a new service record.
func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

// FindByID finds a service by ID.
func (r *serviceRepository) FindByID(ctx context.Context, id uint) (*model.Service, error) {
	var service model.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// List lists all services in insertion order.
func (r *serviceRepository) List(ctx context.Context) ([]model.Service, error) {
	var services []model.Service
	if err := r.db.WithContext(ctx).Order("id").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// ListByCategory lists services in one category. The match is byte-exact,
// independent of the column collation.
func (r *serviceRepository) ListByCategory(ctx context.Context, category string) ([]model.Service, error) {
	var services []model.Service
	if err := byCategory(r.db.WithContext(ctx), category).Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func byCategory(tx *gorm.DB, category string) *gorm.DB {
	return tx.Where("BINARY category = ?", category).Order("id")
}

// Categories lists distinct categories ordered by first appearance.
func (r *serviceRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Service{}).
		Select("category").Group("category").Order("MIN(id)").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Count returns the number of catalog records.
func (r *serviceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Service{}).Count(&count).Error
	return count, err
}
