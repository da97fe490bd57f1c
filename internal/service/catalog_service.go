package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"sevaportal/internal/cache"
	apperrors "sevaportal/internal/errors"
	"sevaportal/internal/model"
	"sevaportal/internal/repository"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogService exposes read access to the service catalog.
type CatalogService interface {
	List(ctx context.Context) ([]model.Service, error)
	// ListByCategory returns the whole catalog for an empty category.
	ListByCategory(ctx context.Context, category string) ([]model.Service, error)
	Get(ctx context.Context, id uint) (*model.Service, error)
	Categories(ctx context.Context) ([]string, error)
}

type catalogService struct {
	repo  repository.ServiceRepository
	cache *cache.Client
}

// NewCatalogService creates a catalog service. Services never change after
// seeding, so cached lists are only ever expired by TTL.
func NewCatalogService(repo repository.ServiceRepository, cache *cache.Client) CatalogService {
	return &catalogService{repo: repo, cache: cache}
}

func (s *catalogService) cachedList(ctx context.Context, key string, load func() ([]model.Service, error)) ([]model.Service, error) {
	var cached []model.Service
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}
	services, err := load()
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, services, catalogCacheTTL)
	return services, nil
}

func (s *catalogService) List(ctx context.Context) ([]model.Service, error) {
	return s.cachedList(ctx, "services:all", func() ([]model.Service, error) {
		return s.repo.List(ctx)
	})
}

func (s *catalogService) ListByCategory(ctx context.Context, category string) ([]model.Service, error) {
	if category == "" {
		return s.List(ctx)
	}
	return s.cachedList(ctx, "services:category:"+category, func() ([]model.Service, error) {
		return s.repo.ListByCategory(ctx, category)
	})
}

func (s *catalogService) Get(ctx context.Context, id uint) (*model.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if s.cache.GetJSON(ctx, "services:categories", &cached) {
		return cached, nil
	}
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, "services:categories", categories, catalogCacheTTL)
	return categories, nil
}
