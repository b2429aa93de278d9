package repository

import (
	"context"
	"fmt"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	// GetPublished loads a published category by slug; hidden ones are not found.
	GetPublished(ctx context.Context, slug string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	// List returns every category ordered by title.
	List(ctx context.Context) ([]models.Category, error)
	ListPublished(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	SetPublished(ctx context.Context, slug string, published bool) error
	// Delete removes the category and detaches its posts.
	Delete(ctx context.Context, slug string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetPublished(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&category).Error
	if err != nil {
		return nil, notFound(err, "category")
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) ListPublished(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("title ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) SetPublished(ctx context.Context, slug string, published bool) error {
	category, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(category).Update("is_published", published).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("slug = ?", slug).First(&category).Error; err != nil {
			return notFound(err, "category")
		}
		err := tx.Model(&models.Post{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

type LocationRepository interface {
	List(ctx context.Context) ([]models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	// Delete removes the location and detaches its posts.
	Delete(ctx context.Context, id uint) error
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) List(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (r *locationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var location models.Location
		if err := tx.First(&location, id).Error; err != nil {
			return notFound(err, "location")
		}
		err := tx.Model(&models.Post{}).
			Where("location_id = ?", location.ID).
			Update("location_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		if err := tx.Delete(&location).Error; err != nil {
			return fmt.Errorf("delete location: %w", err)
		}
		return nil
	})
}
