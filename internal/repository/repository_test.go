package repository

import (
	"context"
	"sync"
	"testing"

	"ecommerce_api/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // Every connection to :memory: is a new database
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.Role{}, &domain.User{}, &domain.Category{}, &domain.Product{}))
	return db
}

func createCategory(t *testing.T, repo CategoryRepository, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	require.NoError(t, repo.CreateCategory(context.Background(), c))
	return c
}

func createProduct(t *testing.T, repo ProductRepository, category *domain.Category, name string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString("10.50"),
		SKU:         "SKU-" + name,
		Stock:       stock,
		CategoryID:  category.ID,
	}
	require.NoError(t, repo.CreateProduct(context.Background(), p))
	return p
}

func TestCategoryRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	books := createCategory(t, repo, "Books")
	createCategory(t, repo, "Electronics")
	createCategory(t, repo, "Apparel")
	assert.NotEqual(t, uuid.Nil, books.ID)
	assert.False(t, books.CreatedOn.IsZero())

	list, err := repo.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Apparel", "Books", "Electronics"}, []string{list[0].Name, list[1].Name, list[2].Name})

	byID, err := repo.GetCategoriesOrderByID(ctx)
	require.NoError(t, err)
	require.Len(t, byID, 3)
	for i := 1; i < len(byID); i++ {
		assert.Less(t, byID[i-1].ID.String(), byID[i].ID.String())
	}

	exists, err := repo.CategoryExistsByName(ctx, "  bOOks ")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.CategoryExists(ctx, books.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	books.Name = "Novels"
	require.NoError(t, repo.UpdateCategory(ctx, books))
	got, err := repo.GetCategory(ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novels", got.Name)
	require.NotNil(t, got.UpdatedOn)

	require.NoError(t, repo.DeleteCategory(ctx, got))
	_, err = repo.GetCategory(ctx, books.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteCategory(ctx, got), ErrNotFound)
}

func TestCategoryRepositoryMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	_, err := repo.GetCategory(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetCategory(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := repo.CategoryExists(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.CategoryExistsByName(ctx, "   ")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.UpdateCategory(ctx, &domain.Category{ID: uuid.New(), Name: "x"}), ErrNotFound)
}

func TestDeleteCategoryStillReferencedFails(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)

	books := createCategory(t, categories, "Books")
	createProduct(t, products, books, "Quixote", 3)

	assert.Error(t, categories.DeleteCategory(ctx, books))
	exists, err := categories.CategoryExists(ctx, books.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProductRepositoryReads(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	repo := NewProductRepository(db)

	books := createCategory(t, categories, "Books")
	home := createCategory(t, categories, "Home")
	lamp := createProduct(t, repo, home, "Lamp", 5)
	createProduct(t, repo, books, "Atlas", 1)
	createProduct(t, repo, books, "Cookbook", 2)

	all, err := repo.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Atlas", all[0].Name)
	assert.Equal(t, "Books", all[0].Category.Name, "category should be preloaded")

	got, err := repo.GetProduct(ctx, lamp.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
	assert.True(t, decimal.RequireFromString("10.50").Equal(got.Price))
	assert.Equal(t, "Home", got.Category.Name)

	_, err = repo.GetProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	inBooks, err := repo.GetProductsInCategory(ctx, books.ID)
	require.NoError(t, err)
	assert.Len(t, inBooks, 2)

	exists, err := repo.ProductExistsByName(ctx, " LAMP")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ProductExists(ctx, lamp.ProductID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	category := createCategory(t, NewCategoryRepository(db), "Home")
	repo := NewProductRepository(db)

	createProduct(t, repo, category, "Desk Lamp", 1)
	createProduct(t, repo, category, "Floor Lamp", 1)
	createProduct(t, repo, category, "Chair", 1)

	found, err := repo.SearchProducts(ctx, "lamp")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Desk Lamp", found[0].Name)

	// Description matches too
	found, err = repo.SearchProducts(ctx, "CHAIR DESC")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = repo.SearchProducts(ctx, "sofa")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGetProductsInPages(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	category := createCategory(t, NewCategoryRepository(db), "Misc")
	repo := NewProductRepository(db)

	names := []string{"g", "c", "a", "e", "b", "f", "d"}
	for _, n := range names {
		createProduct(t, repo, category, n, 1)
	}
	total, err := repo.GetTotalProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)

	var seen []string
	for page := 1; page <= 3; page++ {
		items, err := repo.GetProductsInPages(ctx, page, 3)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(items), 3)
		for _, p := range items {
			seen = append(seen, p.Name)
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, seen)

	items, err := repo.GetProductsInPages(ctx, 4, 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuyProduct(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	category := createCategory(t, NewCategoryRepository(db), "Home")
	repo := NewProductRepository(db)
	lamp := createProduct(t, repo, category, "Lamp", 5)

	require.NoError(t, repo.BuyProduct(ctx, lamp.ProductID, 2))
	got, err := repo.GetProduct(ctx, lamp.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
	assert.NotNil(t, got.UpdatedOn)

	assert.ErrorIs(t, repo.BuyProduct(ctx, lamp.ProductID, 4), ErrInsufficientStock)
	got, err = repo.GetProduct(ctx, lamp.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock, "a failed purchase must not change stock")

	require.NoError(t, repo.BuyProduct(ctx, lamp.ProductID, 3))
	got, err = repo.GetProduct(ctx, lamp.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	assert.ErrorIs(t, repo.BuyProduct(ctx, uuid.New(), 1), ErrNotFound)
	assert.Error(t, repo.BuyProduct(ctx, lamp.ProductID, 0))
}

func TestBuyProductConcurrentNeverOversells(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	category := createCategory(t, NewCategoryRepository(db), "Home")
	repo := NewProductRepository(db)
	lamp := createProduct(t, repo, category, "Lamp", 10)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.BuyProduct(ctx, lamp.ProductID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetProduct(ctx, lamp.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, got.Stock)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	home := createCategory(t, categories, "Home")
	office := createCategory(t, categories, "Office")
	repo := NewProductRepository(db)
	lamp := createProduct(t, repo, home, "Lamp", 5)

	got, err := repo.GetProduct(ctx, lamp.ProductID)
	require.NoError(t, err)
	got.Name = "Desk Lamp"
	got.Stock = 9
	got.CategoryID = office.ID
	require.NoError(t, repo.UpdateProduct(ctx, got))

	got, err = repo.GetProduct(ctx, lamp.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", got.Name)
	assert.Equal(t, 9, got.Stock)
	assert.Equal(t, "Office", got.Category.Name, "the category id on the product wins over the preloaded association")
	assert.NotNil(t, got.UpdatedOn)

	require.NoError(t, repo.DeleteProduct(ctx, got))
	_, err = repo.GetProduct(ctx, lamp.ProductID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	bob := &domain.User{Username: "bob", Name: "Bob", Password: "hash"}
	require.NoError(t, repo.CreateUser(ctx, bob, domain.RoleUser))
	alice := &domain.User{Username: "Alice", Name: "Alice", Password: "hash"}
	require.NoError(t, repo.CreateUser(ctx, alice, domain.RoleAdmin))

	users, err := repo.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Username)
	assert.Equal(t, domain.RoleAdmin, users[0].PrimaryRole())

	got, err := repo.GetUserByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	exists, err := repo.UserExists(ctx, " BOB ")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err = repo.GetUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, got.PrimaryRole())

	_, err = repo.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	// The role row is shared, not duplicated
	carol := &domain.User{Username: "carol", Password: "hash"}
	require.NoError(t, repo.CreateUser(ctx, carol, domain.RoleUser))
	var roles int64
	require.NoError(t, newCount(repo, &roles))
	assert.EqualValues(t, 2, roles)

	dup := &domain.User{Username: "bob", Password: "hash"}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup, domain.RoleUser), gorm.ErrDuplicatedKey)
}

func newCount(repo UserRepository, out *int64) error {
	return repo.(*gormUserRepository).db.Model(&domain.Role{}).Count(out).Error
}
