package repository

import (
	"context" // Request scoped queries
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Name normalisation
	"time"    // Update timestamps

	"ecommerce_api/internal/domain" // Importing domain models

	"github.com/google/uuid" // Identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// CategoryRepository is the persistence contract for categories
type CategoryRepository interface {
	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoriesOrderByID(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	CategoryExistsByName(ctx context.Context, name string) (bool, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, category *domain.Category) error
}

type gormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a gorm backed CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &gormCategoryRepository{db: db}
}

func (r *gormCategoryRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *gormCategoryRepository) GetCategoriesOrderByID(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("category_id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories by id: %w", err)
	}
	return categories, nil
}

func (r *gormCategoryRepository) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	var category domain.Category
	err := r.db.WithContext(ctx).Where("category_id = ?", id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", id, err)
	}
	return &category, nil
}

// CategoryExistsByName compares names case-insensitively, ignoring surrounding spaces
func (r *gormCategoryRepository) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Category{}).
		Where("LOWER(TRIM(name)) = ?", name).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("category exists by name: %w", err)
	}
	return count > 0, nil
}

func (r *gormCategoryRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Category{}).
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return count > 0, nil
}

func (r *gormCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category %q: %w", category.Name, err)
	}
	return nil
}

// UpdateCategory renames the category and stamps UpdatedOn
func (r *gormCategoryRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Category{}).
		Where("category_id = ?", category.ID).
		Updates(map[string]any{"name": category.Name, "updated_on": now})
	if res.Error != nil {
		return fmt.Errorf("update category %s: %w", category.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	category.UpdatedOn = &now
	return nil
}

func (r *gormCategoryRepository) DeleteCategory(ctx context.Context, category *domain.Category) error {
	res := r.db.WithContext(ctx).Where("category_id = ?", category.ID).Delete(&domain.Category{})
	if res.Error != nil {
		return fmt.Errorf("delete category %s: %w", category.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
