package repository

import (
	"context" // Request scoped queries
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Username normalisation

	"ecommerce_api/internal/domain" // Importing domain models

	"github.com/google/uuid" // Identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// UserRepository is the persistence contract for users and their roles
type UserRepository interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UserExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, user *domain.User, roleName string) error
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a gorm backed UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) GetUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Preload("Roles").Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *gormUserRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

// GetUserByUsername looks the user up case-insensitively
func (r *gormUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrNotFound
	}
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("LOWER(username) = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

func (r *gormUserRepository) UserExists(ctx context.Context, username string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("LOWER(username) = ?", username).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return count > 0, nil
}

// CreateUser persists user and assigns roleName, creating the role row when absent.
// Both writes share one transaction.
func (r *gormUserRepository) CreateUser(ctx context.Context, user *domain.User, roleName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := domain.Role{Name: roleName}
		if err := tx.Where(domain.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("ensure role %q: %w", roleName, err)
		}
		user.Roles = []domain.Role{role}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user %q: %w", user.Username, err)
		}
		return nil
	})
}
