package services

import (
	"context"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/utils"
)

const (
	navCacheKey = "nav:categories"
	navCacheTTL = time.Minute
)

// NavService serves the published categories listed in the site header.
type NavService struct {
	categories repository.CategoryRepository
	cache      *utils.Cache[[]models.Category]
}

// NewNavService caches the category list for a minute as measured by now
// (time.Now when nil). Category changes show up once the entry expires.
func NewNavService(categories repository.CategoryRepository, now func() time.Time) (*NavService, error) {
	cache, err := utils.NewCache[[]models.Category](8, now)
	if err != nil {
		return nil, err
	}
	return &NavService{categories: categories, cache: cache}, nil
}

func (s *NavService) Categories(ctx context.Context) ([]models.Category, error) {
	if cached, ok := s.cache.Get(navCacheKey); ok {
		return cached, nil
	}
	categories, err := s.categories.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(navCacheKey, categories, navCacheTTL)
	return categories, nil
}
