package api

import (
	"errors"         // Error inspection
	"fmt"            // Message formatting
	"mime/multipart" // Uploaded files
	"net/http"       // HTTP status codes
	"strconv"        // Query and path parsing
	"strings"        // Search text normalisation
	"time"           // Cache lifetimes

	"ecommerce_api/internal/domain"     // Importing domain models
	"ecommerce_api/internal/dto"        // Request and response shapes
	"ecommerce_api/internal/metrics"    // Prometheus counters
	"ecommerce_api/internal/repository" // Persistence
	"ecommerce_api/internal/service"    // File storage
	"ecommerce_api/internal/utils"      // Cache and pagination helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // Identifiers
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Prices
	"github.com/sirupsen/logrus"    // Structured logging
)

const (
	productCachePrefix  = "products:"      // Every product cache key starts with this
	productPageCacheTTL = 20 * time.Second // Paged listings
	defaultPageNumber   = 1                // Used when pageNumber is absent
	defaultPageSize     = 5                // Used when pageSize is absent
	imageFileField      = "imageFile"      // Multipart part holding the image
)

// GetProductsHandler lists every product ordered by name
func GetProductsHandler(repo repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.GetProducts(c.Request.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch products")
			respondError(c, http.StatusInternalServerError, "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, dto.ToProductDtos(products))
	}
}

// GetProductHandler returns one product by id
func GetProductHandler(repo repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid product id")
			return
		}
		product, err := repo.GetProduct(c.Request.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("product_id", id).Error("Failed to fetch product")
			respondError(c, http.StatusInternalServerError, "Failed to fetch product")
			return
		}
		c.JSON(http.StatusOK, dto.ToProductDto(*product))
	}
}

// GetProductsInPageHandler returns one page of products ordered by name
func GetProductsInPageHandler(repo repository.ProductRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		pageNumber, err1 := queryInt(c, "pageNumber", defaultPageNumber)
		pageSize, err2 := queryInt(c, "pageSize", defaultPageSize)
		if err1 != nil || err2 != nil || pageNumber <= 0 || pageSize <= 0 {
			respondError(c, http.StatusBadRequest, utils.ErrInvalidPage.Error())
			return
		}
		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("%spaged:number=%d:size=%d", productCachePrefix, pageNumber, pageSize)
		var cached dto.PaginationResponse[dto.ProductDto]
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		metrics.RecordCacheLookup(err == nil && found)
		if err == nil && found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}

		total, err := repo.GetTotalProducts(ctx)
		if err != nil {
			logrus.WithError(err).Error("Failed to count products")
			respondError(c, http.StatusInternalServerError, "Failed to fetch products")
			return
		}
		if total == 0 {
			respondError(c, http.StatusNotFound, "No products found")
			return
		}
		totalPages, err := utils.CheckPage(pageNumber, pageSize, total)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		products, err := repo.GetProductsInPages(ctx, pageNumber, pageSize)
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch products page")
			respondError(c, http.StatusInternalServerError, "Failed to fetch products")
			return
		}
		resp := dto.PaginationResponse[dto.ProductDto]{
			TotalItems: total,      // Total number of products
			PageNumber: pageNumber, // Current page
			PageSize:   pageSize,   // Page size
			TotalPages: totalPages, // Total pages
			Items:      dto.ToProductDtos(products),
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, productPageCacheTTL) // Best effort
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, resp)
	}
}

// GetProductsInCategoryHandler lists the products of one category
func GetProductsInCategoryHandler(products repository.ProductRepository, categories repository.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid category id")
			return
		}
		ctx := c.Request.Context()
		exists, err := categories.CategoryExists(ctx, id)
		if err != nil {
			logrus.WithError(err).WithField("category_id", id).Error("Failed to check category")
			respondError(c, http.StatusInternalServerError, "Failed to fetch products")
			return
		}
		if !exists {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		list, err := products.GetProductsInCategory(ctx, id)
		if err != nil {
			logrus.WithError(err).WithField("category_id", id).Error("Failed to fetch products in category")
			respondError(c, http.StatusInternalServerError, "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, dto.ToProductDtos(list))
	}
}

// SearchProductsHandler finds products whose name or description contains the search text
func SearchProductsHandler(repo repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		text := strings.TrimSpace(c.Param("searchText"))
		if text == "" {
			respondError(c, http.StatusBadRequest, "Invalid product name or description")
			return
		}
		products, err := repo.SearchProducts(c.Request.Context(), text)
		if err != nil {
			logrus.WithError(err).WithField("search", text).Error("Failed to search products")
			respondError(c, http.StatusInternalServerError, "Failed to search products")
			return
		}
		if len(products) == 0 {
			respondError(c, http.StatusNotFound, "No products found matching the search criteria")
			return
		}
		c.JSON(http.StatusOK, dto.ToProductDtos(products))
	}
}

// BuyProductHandler takes quantity units out of a product's stock
func BuyProductHandler(repo repository.ProductRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid product id")
			return
		}
		quantity, err := strconv.Atoi(c.Param("quantity"))
		if err != nil || quantity <= 0 {
			respondError(c, http.StatusBadRequest, "Quantity must be greater than zero")
			return
		}
		err = repo.BuyProduct(c.Request.Context(), id, quantity)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			respondError(c, http.StatusNotFound, "Product not found")
			return
		case errors.Is(err, repository.ErrInsufficientStock):
			respondError(c, http.StatusBadRequest, "Could not complete the purchase: insufficient stock")
			return
		case err != nil:
			logrus.WithFields(logrus.Fields{
				"product_id": id,
				"quantity":   quantity,
				"error":      err.Error(),
			}).Error("Failed to buy product")
			respondError(c, http.StatusInternalServerError, "Could not complete the purchase. Please try again.")
			return
		}
		invalidateProducts(c, rdb)
		metrics.RecordProductOperation("buy")
		metrics.PurchasedUnitsTotal.Add(float64(quantity))
		logrus.WithFields(logrus.Fields{
			"product_id": id,
			"quantity":   quantity,
		}).Info("Product purchased")
		c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Successfully purchased %d", quantity)})
	}
}

// CreateProductHandler creates a product from a multipart form with an optional image file
func CreateProductHandler(products repository.ProductRepository, categories repository.CategoryRepository, files *service.FileService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := readProductForm(c, categories, files)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		exists, err := products.ProductExistsByName(ctx, in.form.Name)
		if err != nil {
			logrus.WithError(err).Error("Failed to check product name")
			respondError(c, http.StatusInternalServerError, "Failed to create product")
			return
		}
		if exists {
			respondError(c, http.StatusBadRequest, "Product already exists")
			return
		}

		product := domain.Product{ProductID: uuid.New()}
		in.apply(&product)
		stored, err := storeImage(c, files, in, product.ProductID)
		if err != nil {
			respondUploadError(c, err)
			return
		}
		switch {
		case stored.LocalPath != "":
			product.ImageURL, product.ImageURLLocal = stored.URL, stored.LocalPath
		case in.form.ImageURL != "":
			product.ImageURL = in.form.ImageURL
		default:
			product.ImageURL = service.DefaultImageURL
		}

		if err := products.CreateProduct(ctx, &product); err != nil {
			files.DeleteFile(stored.LocalPath) // Do not leave an orphaned upload behind
			logrus.WithFields(logrus.Fields{
				"name":  product.Name,
				"error": err.Error(),
			}).Error("Failed to create product")
			respondError(c, http.StatusInternalServerError, "Something went wrong when saving the record "+product.Name)
			return
		}
		product.Category = *in.category
		invalidateProducts(c, rdb)
		metrics.RecordProductOperation("create")
		logrus.WithFields(logrus.Fields{
			"product_id":  product.ProductID,
			"name":        product.Name,
			"category_id": product.CategoryID,
		}).Info("Product created")

		c.Header("Location", locationOf(c, product.ProductID))
		c.JSON(http.StatusCreated, dto.ToProductDto(product))
	}
}

// UpdateProductHandler replaces a product's fields and, when a file is sent, its image
func UpdateProductHandler(products repository.ProductRepository, categories repository.CategoryRepository, files *service.FileService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid product id")
			return
		}
		in, ok := readProductForm(c, categories, files)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		product, err := products.GetProduct(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("product_id", id).Error("Failed to fetch product")
			respondError(c, http.StatusInternalServerError, "Failed to update product")
			return
		}
		if !strings.EqualFold(strings.TrimSpace(product.Name), strings.TrimSpace(in.form.Name)) {
			exists, err := products.ProductExistsByName(ctx, in.form.Name)
			if err != nil {
				logrus.WithError(err).Error("Failed to check product name")
				respondError(c, http.StatusInternalServerError, "Failed to update product")
				return
			}
			if exists {
				respondError(c, http.StatusBadRequest, "Product already exists")
				return
			}
		}

		stored, err := storeImage(c, files, in, product.ProductID)
		if err != nil {
			respondUploadError(c, err)
			return
		}
		previousLocal := product.ImageURLLocal
		in.apply(product)
		switch {
		case stored.LocalPath != "":
			product.ImageURL, product.ImageURLLocal = stored.URL, stored.LocalPath
		case in.form.ImageURL != "":
			product.ImageURL, product.ImageURLLocal = in.form.ImageURL, ""
		}

		if err := products.UpdateProduct(ctx, product); err != nil {
			files.DeleteFile(stored.LocalPath)
			logrus.WithFields(logrus.Fields{
				"product_id": id,
				"error":      err.Error(),
			}).Error("Failed to update product")
			respondError(c, http.StatusInternalServerError, "Something went wrong when updating the record "+product.Name)
			return
		}
		if previousLocal != "" && previousLocal != product.ImageURLLocal {
			files.DeleteFile(previousLocal) // The old image is no longer referenced
		}
		invalidateProducts(c, rdb)
		metrics.RecordProductOperation("update")
		logrus.WithFields(logrus.Fields{
			"product_id": id,
			"name":       product.Name,
		}).Info("Product updated")
		c.Status(http.StatusNoContent)
	}
}

// DeleteProductHandler removes a product and its locally stored image
func DeleteProductHandler(repo repository.ProductRepository, files *service.FileService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			respondError(c, http.StatusBadRequest, "Invalid product id")
			return
		}
		ctx := c.Request.Context()
		product, err := repo.GetProduct(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("product_id", id).Error("Failed to fetch product")
			respondError(c, http.StatusInternalServerError, "Failed to delete product")
			return
		}
		if err := repo.DeleteProduct(ctx, product); err != nil {
			logrus.WithFields(logrus.Fields{
				"product_id": id,
				"error":      err.Error(),
			}).Error("Failed to delete product")
			respondError(c, http.StatusInternalServerError, "Something went wrong when deleting the record "+product.Name)
			return
		}
		files.DeleteFile(product.ImageURLLocal)
		invalidateProducts(c, rdb)
		metrics.RecordProductOperation("delete")
		logrus.WithField("product_id", id).Info("Product deleted")
		c.Status(http.StatusNoContent)
	}
}

// productInput is a validated product form
type productInput struct {
	form     dto.ProductFormDto
	price    decimal.Decimal
	category *domain.Category
	file     *multipart.FileHeader // nil when no image was sent
}

// apply copies the form fields onto product
func (in *productInput) apply(product *domain.Product) {
	product.Name = strings.TrimSpace(in.form.Name)
	product.Description = in.form.Description
	product.Price = in.price
	product.SKU = strings.TrimSpace(in.form.SKU)
	product.Stock = in.form.Stock
	product.CategoryID = in.category.ID
}

// readProductForm binds and validates the multipart form, including the image file.
// It writes the error response itself and reports false when the request must stop.
func readProductForm(c *gin.Context, categories repository.CategoryRepository, files *service.FileService) (*productInput, bool) {
	in := &productInput{}
	if err := c.ShouldBind(&in.form); err != nil {
		respondBindingError(c, err)
		return nil, false
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.form.Price))
	if err != nil || price.IsNegative() {
		respondError(c, http.StatusBadRequest, "price must be a non-negative number")
		return nil, false
	}
	in.price = price.Round(2)

	file, err := c.FormFile(imageFileField)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		respondError(c, http.StatusBadRequest, "Invalid image file")
		return nil, false
	default:
		in.file = file
	}
	if err := files.Validate(in.file); err != nil {
		respondUploadError(c, err)
		return nil, false
	}

	categoryID := uuid.MustParse(in.form.CategoryID) // Already checked by the uuid binding rule
	category, err := categories.GetCategory(c.Request.Context(), categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusBadRequest, "Category does not exist")
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).WithField("category_id", categoryID).Error("Failed to fetch category")
		respondError(c, http.StatusInternalServerError, "Failed to check category")
		return nil, false
	}
	in.category = category
	return in, true
}

// storeImage writes the uploaded file, if any. The zero StoredFile means nothing was written.
func storeImage(c *gin.Context, files *service.FileService, in *productInput, productID uuid.UUID) (service.StoredFile, error) {
	if in.file == nil || in.file.Size == 0 {
		return service.StoredFile{}, nil
	}
	return files.Upload(in.file, productID, service.ProductImagesFolder, baseURL(c.Request))
}

// respondUploadError maps file service failures to a status
func respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrFileTypeNotAllowed) || errors.Is(err, service.ErrFileTooLarge) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	logrus.WithError(err).Error("Failed to store uploaded file")
	respondError(c, http.StatusInternalServerError, "Failed to store uploaded file")
}

// invalidateProducts drops every cached product page
func invalidateProducts(c *gin.Context, rdb *redis.Client) {
	if err := utils.DeleteCacheByPrefix(c.Request.Context(), rdb, productCachePrefix); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate product cache")
	}
}

// queryInt reads an integer query parameter, returning def when it is absent
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
