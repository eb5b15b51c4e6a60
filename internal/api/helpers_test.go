package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecommerce_api/internal/domain"
	"ecommerce_api/internal/repository"
	"ecommerce_api/internal/service"
	"ecommerce_api/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testTokens = utils.TokenOptions{
	Secret:   "api-test-secret-0123456789abcdefgh",
	Issuer:   "ApiEcommerce",
	Audience: "ApiEcommerce",
	TTL:      2 * time.Hour,
}

type testServer struct {
	router     *gin.Engine
	db         *gorm.DB
	uploadDir  string
	redis      *miniredis.Miniredis // nil unless caching was requested
	categories repository.CategoryRepository
	products   repository.ProductRepository
	adminToken string
	userToken  string
}

func newTestServer(t *testing.T, withRedis bool) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.Role{}, &domain.User{}, &domain.Category{}, &domain.Product{}))

	s := &testServer{
		db:         db,
		uploadDir:  t.TempDir(),
		categories: repository.NewCategoryRepository(db),
		products:   repository.NewProductRepository(db),
	}
	var rdb *redis.Client
	if withRedis {
		s.redis = miniredis.RunT(t)
		rdb = redis.NewClient(&redis.Options{Addr: s.redis.Addr()})
		t.Cleanup(func() { rdb.Close() })
	}

	users := repository.NewUserRepository(db)
	s.router, err = NewRouter(Dependencies{
		DB:         db,
		Redis:      rdb,
		Categories: s.categories,
		Products:   s.products,
		Users:      users,
		Auth:       service.NewAuthService(users, testTokens).WithHashCost(bcrypt.MinCost),
		Files:      service.NewFileService(s.uploadDir, 0),
		Tokens:     testTokens,
	})
	require.NoError(t, err)

	s.adminToken, _, err = utils.GenerateJWT(uuid.New(), "admin@admin.com", domain.RoleAdmin, testTokens)
	require.NoError(t, err)
	s.userToken, _, err = utils.GenerateJWT(uuid.New(), "user@user.com", domain.RoleUser, testTokens)
	require.NoError(t, err)
	return s
}

func (s *testServer) do(method, target string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, target string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return s.do(method, target, body, "application/json", token)
}

func (s *testServer) seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	require.NoError(t, s.categories.CreateCategory(context.Background(), c))
	return c
}

func (s *testServer) seedProduct(t *testing.T, category *domain.Category, name string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:        name,
		Description: "About " + name,
		Price:       decimal.RequireFromString("9.99"),
		SKU:         "SKU-" + name,
		Stock:       stock,
		ImageURL:    service.DefaultImageURL,
		CategoryID:  category.ID,
	}
	require.NoError(t, s.products.CreateProduct(context.Background(), p))
	return p
}

// productForm encodes fields and, when fileName is set, an image of fileSize bytes
func productForm(t *testing.T, fields map[string]string, fileName string, fileSize int) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile(imageFileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0x42}, fileSize))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "%s %s", http.StatusText(w.Code), w.Body.String())
}
