package repository

import (
	"context" // Request scoped queries
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Search normalisation
	"time"    // Update timestamps

	"ecommerce_api/internal/domain" // Importing domain models

	"github.com/google/uuid" // Identifiers
	"gorm.io/gorm"           // GORM ORM library
	"gorm.io/gorm/clause"    // Association control
)

// ProductRepository is the persistence contract for products.
// Every read preloads the owning category.
type ProductRepository interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProductsInPages(ctx context.Context, pageNumber, pageSize int) ([]domain.Product, error)
	GetTotalProducts(ctx context.Context) (int64, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductsInCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error)
	SearchProducts(ctx context.Context, text string) ([]domain.Product, error)
	BuyProduct(ctx context.Context, id uuid.UUID, quantity int) error
	ProductExistsByName(ctx context.Context, name string) (bool, error)
	ProductExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, product *domain.Product) error
}

type gormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository returns a gorm backed ProductRepository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

// withCategory starts a product query with the category preloaded
func (r *gormProductRepository) withCategory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category")
}

func (r *gormProductRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.withCategory(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProductsInPages returns page pageNumber (1-based) of products ordered by name
func (r *gormProductRepository) GetProductsInPages(ctx context.Context, pageNumber, pageSize int) ([]domain.Product, error) {
	if pageNumber < 1 || pageSize < 1 {
		return []domain.Product{}, nil
	}
	offset := (pageNumber - 1) * pageSize // Calculate offset for pagination
	var products []domain.Product
	if err := r.withCategory(ctx).
		Order("name").
		Order("product_id").
		Offset(offset).
		Limit(pageSize).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products page %d size %d: %w", pageNumber, pageSize, err)
	}
	return products, nil
}

func (r *gormProductRepository) GetTotalProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

func (r *gormProductRepository) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	var product domain.Product
	err := r.withCategory(ctx).Where("product_id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &product, nil
}

func (r *gormProductRepository) GetProductsInCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	if categoryID == uuid.Nil {
		return []domain.Product{}, nil
	}
	var products []domain.Product
	if err := r.withCategory(ctx).
		Where("category_id = ?", categoryID).
		Order("name").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products in category %s: %w", categoryID, err)
	}
	return products, nil
}

// SearchProducts matches text as a case-insensitive substring of name or description.
// LIKE wildcards inside text are not escaped.
func (r *gormProductRepository) SearchProducts(ctx context.Context, text string) ([]domain.Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []domain.Product{}, nil
	}
	pattern := "%" + strings.ToLower(text) + "%"
	var products []domain.Product
	if err := r.withCategory(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("name").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("search products %q: %w", text, err)
	}
	return products, nil
}

// BuyProduct decrements stock by quantity. The decrement is a single guarded
// UPDATE, so two concurrent purchases cannot both spend the same units. A plain
// read-check-write of the stock column would let both succeed and oversell.
func (r *gormProductRepository) BuyProduct(ctx context.Context, id uuid.UUID, quantity int) error {
	if id == uuid.Nil {
		return ErrNotFound
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("product_id = ? AND stock >= ?", id, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_on": now,
		})
	if res.Error != nil {
		return fmt.Errorf("buy product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	// Nothing changed: either the product is gone or stock is short
	exists, err := r.ProductExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInsufficientStock
}

// ProductExistsByName compares names case-insensitively, ignoring surrounding spaces
func (r *gormProductRepository) ProductExistsByName(ctx context.Context, name string) (bool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("LOWER(TRIM(name)) = ?", name).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("product exists by name: %w", err)
	}
	return count > 0, nil
}

func (r *gormProductRepository) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("product_id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return count > 0, nil
}

func (r *gormProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("nil product")
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("create product %q: %w", product.Name, err)
	}
	return nil
}

// UpdateProduct writes every column of product and stamps UpdatedOn
func (r *gormProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	product.UpdatedOn = &now
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error; err != nil {
		return fmt.Errorf("update product %s: %w", product.ProductID, err)
	}
	return nil
}

func (r *gormProductRepository) DeleteProduct(ctx context.Context, product *domain.Product) error {
	res := r.db.WithContext(ctx).Where("product_id = ?", product.ProductID).Delete(&domain.Product{})
	if res.Error != nil {
		return fmt.Errorf("delete product %s: %w", product.ProductID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
