package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // Name normalisation
	"time"     // Cache lifetimes

	"ecommerce_api/internal/domain"     // Importing domain models
	"ecommerce_api/internal/dto"        // Request and response shapes
	"ecommerce_api/internal/metrics"    // Prometheus counters
	"ecommerce_api/internal/repository" // Persistence
	"ecommerce_api/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

const (
	categoryCachePrefix  = "categories:"    // Every category cache key starts with this
	categoryListCacheTTL = 20 * time.Second // Matches the Default20 header profile
	categoryItemCacheTTL = 10 * time.Second // Matches the Default10 header profile
)

// GetCategoriesHandler lists all categories, by name or by id when orderByID is set
func GetCategoriesHandler(repo repository.CategoryRepository, rdb *redis.Client, orderByID bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		cacheKey := categoryCachePrefix + "list:name"
		if orderByID {
			cacheKey = categoryCachePrefix + "list:id"
		}
		var cached []dto.CategoryDto
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		metrics.RecordCacheLookup(err == nil && found)
		if err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}

		var categories []domain.Category
		if orderByID {
			categories, err = repo.GetCategoriesOrderByID(ctx)
		} else {
			categories, err = repo.GetCategories(ctx)
		}
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch categories")
			respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
			return
		}
		resp := dto.ToCategoryDtos(categories)
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, categoryListCacheTTL) // Best effort
		c.JSON(http.StatusOK, resp)
	}
}

// GetCategoryHandler returns one category by id
func GetCategoryHandler(repo repository.CategoryRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid category id")
			return
		}
		ctx := c.Request.Context()
		cacheKey := categoryCachePrefix + "id:" + id.String()
		var cached dto.CategoryDto
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		metrics.RecordCacheLookup(err == nil && found)
		if err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}

		category, err := repo.GetCategory(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Category with id "+id.String()+" does not exist")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("category_id", id).Error("Failed to fetch category")
			respondError(c, http.StatusInternalServerError, "Failed to fetch category")
			return
		}
		resp := dto.ToCategoryDto(*category)
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, categoryItemCacheTTL)
		c.JSON(http.StatusOK, resp)
	}
}

// CreateCategoryHandler creates a category with a name no other category uses
func CreateCategoryHandler(repo repository.CategoryRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateCategoryDto
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
		ctx := c.Request.Context()
		name := strings.TrimSpace(req.Name)
		exists, err := repo.CategoryExistsByName(ctx, name)
		if err != nil {
			logrus.WithError(err).Error("Failed to check category name")
			respondError(c, http.StatusInternalServerError, "Failed to create category")
			return
		}
		if exists {
			respondError(c, http.StatusBadRequest, "Category already exists")
			return
		}

		category := domain.Category{Name: name}
		if err := repo.CreateCategory(ctx, &category); err != nil {
			logrus.WithFields(logrus.Fields{
				"name":  name,
				"error": err.Error(),
			}).Error("Failed to create category")
			respondError(c, http.StatusInternalServerError, "Something went wrong saving the category "+name)
			return
		}
		invalidateCatalog(c, rdb)
		metrics.RecordCategoryOperation("create")
		logrus.WithFields(logrus.Fields{
			"category_id": category.ID,
			"name":        category.Name,
		}).Info("Category created")

		c.Header("Location", locationOf(c, category.ID))
		c.JSON(http.StatusCreated, dto.ToCategoryDto(category))
	}
}

// UpdateCategoryHandler renames a category
func UpdateCategoryHandler(repo repository.CategoryRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid category id")
			return
		}
		var req dto.CreateCategoryDto
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
		ctx := c.Request.Context()
		name := strings.TrimSpace(req.Name)

		category, err := repo.GetCategory(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Category with id "+id.String()+" does not exist")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("category_id", id).Error("Failed to fetch category")
			respondError(c, http.StatusInternalServerError, "Failed to update category")
			return
		}
		// Keeping the current name, or changing only its case, is not a conflict
		if !strings.EqualFold(category.Name, name) {
			exists, err := repo.CategoryExistsByName(ctx, name)
			if err != nil {
				logrus.WithError(err).Error("Failed to check category name")
				respondError(c, http.StatusInternalServerError, "Failed to update category")
				return
			}
			if exists {
				respondError(c, http.StatusBadRequest, "Category already exists")
				return
			}
		}

		category.Name = name
		if err := repo.UpdateCategory(ctx, category); err != nil {
			logrus.WithFields(logrus.Fields{
				"category_id": id,
				"error":       err.Error(),
			}).Error("Failed to update category")
			respondError(c, http.StatusInternalServerError, "Something went wrong updating the category "+name)
			return
		}
		invalidateCatalog(c, rdb)
		metrics.RecordCategoryOperation("update")
		logrus.WithFields(logrus.Fields{
			"category_id": id,
			"name":        name,
		}).Info("Category updated")
		c.Status(http.StatusNoContent)
	}
}

// DeleteCategoryHandler removes a category that no product references
func DeleteCategoryHandler(repo repository.CategoryRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid category id")
			return
		}
		ctx := c.Request.Context()
		category, err := repo.GetCategory(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Category with id "+id.String()+" does not exist")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("category_id", id).Error("Failed to fetch category")
			respondError(c, http.StatusInternalServerError, "Failed to delete category")
			return
		}
		if err := repo.DeleteCategory(ctx, category); err != nil {
			// Most often a product still references it
			logrus.WithFields(logrus.Fields{
				"category_id": id,
				"error":       err.Error(),
			}).Error("Failed to delete category")
			respondError(c, http.StatusBadRequest, "Something went wrong deleting the category "+category.Name)
			return
		}
		invalidateCatalog(c, rdb)
		metrics.RecordCategoryOperation("delete")
		logrus.WithField("category_id", id).Info("Category deleted")
		c.Status(http.StatusNoContent)
	}
}

// invalidateCatalog drops cached categories and product pages, which embed category names
func invalidateCatalog(c *gin.Context, rdb *redis.Client) {
	ctx := c.Request.Context()
	for _, prefix := range []string{categoryCachePrefix, productCachePrefix} {
		if err := utils.DeleteCacheByPrefix(ctx, rdb, prefix); err != nil {
			logrus.WithFields(logrus.Fields{
				"prefix": prefix,
				"error":  err.Error(),
			}).Warn("Failed to invalidate cache")
		}
	}
}
