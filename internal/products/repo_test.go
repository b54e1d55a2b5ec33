package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	"github.com/dropshoplabs/dropshop-backend/pkg/pagination"
)

func setupProductsRepo(t *testing.T) Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`CREATE TABLE products (
		id text PRIMARY KEY,
		name text NOT NULL,
		description text NOT NULL,
		price numeric NOT NULL,
		original_price numeric,
		category text NOT NULL,
		images text NOT NULL DEFAULT '{}',
		badge text,
		rating numeric NOT NULL DEFAULT 0,
		reviews integer NOT NULL DEFAULT 0,
		features text NOT NULL DEFAULT '{}',
		specifications text,
		in_stock boolean NOT NULL DEFAULT true,
		created_at datetime NOT NULL,
		updated_at datetime NOT NULL
	)`).Error)

	return NewRepository(conn)
}

func seedProduct(t *testing.T, repo Repository, name, category string, inStock bool, createdAt time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: "seeded listing",
		Price:       decimal.RequireFromString("19.99"),
		Category:    category,
		Images:      pq.StringArray{},
		Features:    pq.StringArray{},
		InStock:     inStock,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	created, err := repo.Create(context.Background(), product)
	require.NoError(t, err)
	return created
}

func TestProductsRepoCreateAndFind(t *testing.T) {
	repo := setupProductsRepo(t)
	ctx := context.Background()

	seeded := seedProduct(t, repo, "Wireless Earbuds", "electronics", true, time.Now().UTC())

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Earbuds", found.Name)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("19.99")))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductsRepoListFilters(t *testing.T) {
	repo := setupProductsRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	earbuds := seedProduct(t, repo, "Wireless Earbuds", "electronics", true, base)
	seedProduct(t, repo, "Yoga Mat", "fitness", true, base.Add(time.Minute))
	seedProduct(t, repo, "Desk Lamp", "home", false, base.Add(2*time.Minute))

	byCategory, err := repo.List(ctx, pagination.Params{}, Filters{Category: "electronics"})
	require.NoError(t, err)
	require.Len(t, byCategory.Products, 1)
	assert.Equal(t, earbuds.ID, byCategory.Products[0].ID)

	inStock, err := repo.List(ctx, pagination.Params{}, Filters{InStockOnly: true})
	require.NoError(t, err)
	assert.Len(t, inStock.Products, 2)

	byName, err := repo.List(ctx, pagination.Params{}, Filters{Query: "earbuds"})
	require.NoError(t, err)
	require.Len(t, byName.Products, 1)
	assert.Equal(t, earbuds.ID, byName.Products[0].ID)
}

func TestProductsRepoListPaginatesByCursor(t *testing.T) {
	repo := setupProductsRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := seedProduct(t, repo, "First", "misc", true, base)
	seedProduct(t, repo, "Second", "misc", true, base.Add(time.Minute))
	newest := seedProduct(t, repo, "Third", "misc", true, base.Add(2*time.Minute))

	page, err := repo.List(ctx, pagination.Params{Limit: 2}, Filters{})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, newest.ID, page.Products[0].ID)
	require.NotEmpty(t, page.NextCursor)

	rest, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor}, Filters{})
	require.NoError(t, err)
	require.Len(t, rest.Products, 1)
	assert.Equal(t, oldest.ID, rest.Products[0].ID)
	assert.Empty(t, rest.NextCursor)
}

func TestProductsRepoListCategories(t *testing.T) {
	repo := setupProductsRepo(t)

	now := time.Now().UTC()
	seedProduct(t, repo, "Earbuds", "electronics", true, now)
	seedProduct(t, repo, "Headphones", "electronics", true, now)
	seedProduct(t, repo, "Yoga Mat", "fitness", true, now)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "fitness"}, categories)
}

func TestProductsRepoUpdateAndDelete(t *testing.T) {
	repo := setupProductsRepo(t)
	ctx := context.Background()

	seeded := seedProduct(t, repo, "Earbuds", "electronics", true, time.Now().UTC())

	require.NoError(t, repo.Update(ctx, seeded.ID, map[string]any{"in_stock": false}))
	reloaded, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.InStock)

	err = repo.Update(ctx, uuid.New(), map[string]any{"in_stock": false})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, seeded.ID))
	_, err = repo.FindByID(ctx, seeded.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(ctx, seeded.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
