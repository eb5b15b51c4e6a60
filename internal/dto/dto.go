// Package dto holds the request and response shapes used at the HTTP boundary
// and the explicit functions that project persisted entities onto them.
package dto

import (
	"time" // Timestamps

	"github.com/google/uuid"        // Identifiers
	"github.com/shopspring/decimal" // Prices
)

// CategoryDto is the public view of a category
type CategoryDto struct {
	CategoryID uuid.UUID  `json:"categoryId"`
	Name       string     `json:"name"`
	CreatedOn  time.Time  `json:"createdOn"`
	UpdatedOn  *time.Time `json:"updatedOn"`
}

// CreateCategoryDto is the body accepted by category create and update
type CreateCategoryDto struct {
	Name string `json:"name" binding:"required,notblank,max=50"`
}

// ProductDto is the public view of a product, flattened with its category name
type ProductDto struct {
	ProductID    uuid.UUID       `json:"productId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl"`
	SKU          string          `json:"sku"`
	Stock        int             `json:"stock"`
	CreatedOn    time.Time       `json:"createdOn"`
	UpdatedOn    *time.Time      `json:"updatedOn"`
	CategoryID   uuid.UUID       `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
}

// ProductFormDto is the multipart form accepted by product create and update.
// The image file travels in the "imageFile" part and is read separately.
type ProductFormDto struct {
	Name        string `form:"name" json:"name" binding:"required,notblank"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price" binding:"required"`
	ImageURL    string `form:"imageUrl" json:"imageUrl" binding:"omitempty,url"`
	SKU         string `form:"sku" json:"sku" binding:"required,notblank"`
	Stock       int    `form:"stock" json:"stock" binding:"gte=0"`
	CategoryID  string `form:"categoryId" json:"categoryId" binding:"required,uuid"`
}

// PaginationResponse wraps one page of items
type PaginationResponse[T any] struct {
	TotalItems int64 `json:"totalItems"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	Items      []T   `json:"items"`
}

// UserDto is the admin view of a user; the password hash never leaves the server
type UserDto struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
}

// UserDataDto is returned after registration and login
type UserDataDto struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// CreateUserDto is the registration body
type CreateUserDto struct {
	Name     string `json:"name"`
	Username string `json:"username" binding:"required,notblank"`
	Password string `json:"password" binding:"required,notblank"`
	Role     string `json:"role"`
}

// UserLoginDto is the login body
type UserLoginDto struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserLoginResponseDto is returned on successful login
type UserLoginResponseDto struct {
	Token   string       `json:"token"`
	User    *UserDataDto `json:"user"`
	Message string       `json:"message"`
}
