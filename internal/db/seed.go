package db

import (
	"context" // Request scoped calls
	"fmt"     // Error wrapping

	"ecommerce_api/internal/domain"     // Importing domain models
	"ecommerce_api/internal/repository" // User creation with roles

	"github.com/shopspring/decimal" // Prices
	"github.com/sirupsen/logrus"    // Structured logging
	"golang.org/x/crypto/bcrypt"    // Password hashing
	"gorm.io/gorm"                  // GORM ORM library
)

type seedUser struct {
	username, name, password, role string
}

type seedProduct struct {
	name, description, price, sku, category, imageURL string
	stock                                             int
}

var (
	seedCategories = []string{"Clothing & Accessories", "Electronics", "Sports", "Home", "Books"}

	seedUsers = []seedUser{
		{"admin@admin.com", "Administrator", "Admin123!", domain.RoleAdmin},
		{"user@user.com", "Regular User", "User123!", domain.RoleUser},
	}

	seedProducts = []seedProduct{
		{"Basic T-Shirt", "100% cotton t-shirt", "25.99", "PROD-001-TSH-M", "Clothing & Accessories", "https://placehold.co/300x300/FF0000/FFFFFF?text=T-Shirt", 50},
		{"Galaxy Smartphone", "Smartphone with 128GB storage", "599.99", "PROD-002-PHO-BLK", "Electronics", "https://placehold.co/300x300/0000FF/FFFFFF?text=Smartphone", 25},
		{"Soccer Ball", "Official size match ball", "45.00", "PROD-003-BAL-WHT", "Sports", "https://placehold.co/300x300/00FF00/FFFFFF?text=Ball", 30},
		{"Desk Lamp", "Dimmable LED lamp", "89.99", "PROD-004-LAM-WHT", "Home", "https://placehold.co/300x300/FFFF00/000000?text=Lamp", 15},
		{"Don Quixote", "Classic novel by Cervantes", "19.99", "PROD-005-BOK-ENG", "Books", "https://placehold.co/300x300/800080/FFFFFF?text=Book", 100},
		{"Classic Jeans", "Blue denim trousers", "79.99", "PROD-006-PAN-BLU", "Clothing & Accessories", "https://placehold.co/300x300/4169E1/FFFFFF?text=Jeans", 40},
		{"Tablet Pro", "10.5 inch tablet with stylus", "459.99", "PROD-007-TAB-SIL", "Electronics", "https://placehold.co/300x300/C0C0C0/000000?text=Tablet", 20},
		{"Running Shoes", "Lightweight running shoes", "129.99", "PROD-008-SHO-BLK", "Sports", "https://placehold.co/300x300/000000/FFFFFF?text=Shoes", 35},
		{"Espresso Machine", "Automatic coffee maker with grinder", "299.99", "PROD-009-CAF-BLK", "Home", "https://placehold.co/300x300/2F4F4F/FFFFFF?text=Coffee", 12},
	}
)

// Seed fills empty tables with roles, categories, two users and sample products.
// Tables that already hold rows are left untouched.
func Seed(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)

	var count int64
	if err := tx.Model(&domain.Role{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if count == 0 {
		roles := []domain.Role{{Name: domain.RoleAdmin}, {Name: domain.RoleUser}}
		if err := tx.Create(&roles).Error; err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
	}

	if err := tx.Model(&domain.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count == 0 {
		categories := make([]domain.Category, len(seedCategories))
		for i, name := range seedCategories {
			categories[i] = domain.Category{Name: name}
		}
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}

	if err := tx.Model(&domain.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		users := repository.NewUserRepository(db)
		for _, u := range seedUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.username, err)
			}
			user := &domain.User{Username: u.username, Name: u.name, Password: string(hash)}
			if err := users.CreateUser(ctx, user, u.role); err != nil {
				return fmt.Errorf("seed user %s: %w", u.username, err)
			}
		}
	}

	if err := tx.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count == 0 {
		var categories []domain.Category
		if err := tx.Find(&categories).Error; err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		byName := make(map[string]domain.Category, len(categories))
		for _, c := range categories {
			byName[c.Name] = c
		}
		products := make([]domain.Product, 0, len(seedProducts))
		for _, p := range seedProducts {
			category, ok := byName[p.category]
			if !ok {
				logrus.WithField("category", p.category).Warn("Seed category missing, skipping product")
				continue
			}
			products = append(products, domain.Product{
				Name:        p.name,
				Description: p.description,
				Price:       decimal.RequireFromString(p.price),
				SKU:         p.sku,
				Stock:       p.stock,
				ImageURL:    p.imageURL,
				CategoryID:  category.ID,
			})
		}
		if len(products) > 0 {
			if err := tx.Omit("Category").Create(&products).Error; err != nil {
				return fmt.Errorf("seed products: %w", err)
			}
		}
	}

	logrus.Info("Seeding completed.")
	return nil
}
