package products

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
	"github.com/dropshoplabs/dropshop-backend/pkg/pagination"
)

type stubProductsRepo struct {
	products map[uuid.UUID]*models.Product
	updates  []map[string]any
	updateFn func(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

func newStubProductsRepo(products ...*models.Product) *stubProductsRepo {
	s := &stubProductsRepo{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductsRepo) List(ctx context.Context, params pagination.Params, filters Filters) (*ProductList, error) {
	list := &ProductList{}
	for _, p := range s.products {
		list.Products = append(list.Products, *p)
	}
	return list, nil
}

func (s *stubProductsRepo) ListCategories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var categories []string
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, updates)
	}
	p, ok := s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates = append(s.updates, updates)
	if name, ok := updates["name"].(string); ok {
		p.Name = name
	}
	if price, ok := updates["price"].(decimal.Decimal); ok {
		p.Price = price
	}
	if images, ok := updates["images"].(pq.StringArray); ok {
		p.Images = images
	}
	if inStock, ok := updates["in_stock"].(bool); ok {
		p.InStock = inStock
	}
	return nil
}

func (s *stubProductsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.products, id)
	return nil
}

type stubImageStore struct {
	uploadErr error
	uploaded  []string
	deleted   []string
}

func (s *stubImageStore) Upload(ctx context.Context, object string, data []byte, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploaded = append(s.uploaded, object)
	return "https://storage.googleapis.com/dropshop-media/" + object, nil
}

func (s *stubImageStore) Delete(ctx context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	return nil
}

func newTestCatalog(t *testing.T, repo Repository, images ImageStore) Service {
	t.Helper()
	svc, err := NewService(repo, images, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return svc
}

func sampleProduct() *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "Wireless Earbuds",
		Category: "electronics",
		Price:    decimal.RequireFromString("59.99"),
		Images:   pq.StringArray{},
		InStock:  true,
	}
}

func TestCatalogCreate(t *testing.T) {
	repo := newStubProductsRepo()
	svc := newTestCatalog(t, repo, nil)

	created, err := svc.Create(context.Background(), CreateInput{
		Name:        "Wireless Earbuds",
		Description: "Noise-cancelling in-ear buds.",
		Price:       decimal.RequireFromString("59.99"),
		Category:    "electronics",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.InStock)
	assert.NotNil(t, created.Images)
	assert.NotNil(t, created.Features)
}

func TestCatalogCreateValidation(t *testing.T) {
	svc := newTestCatalog(t, newStubProductsRepo(), nil)

	_, err := svc.Create(context.Background(), CreateInput{Name: "missing the rest"})

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCatalogCreateRejectsNegativePrice(t *testing.T) {
	svc := newTestCatalog(t, newStubProductsRepo(), nil)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "Broken",
		Description: "priced below zero",
		Price:       decimal.RequireFromString("-1"),
		Category:    "electronics",
	})

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCatalogUpdatePartial(t *testing.T) {
	product := sampleProduct()
	repo := newStubProductsRepo(product)
	svc := newTestCatalog(t, repo, nil)

	name := "Wireless Earbuds Pro"
	updated, err := svc.Update(context.Background(), product.ID, UpdateInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, name, updated.Name)
	require.Len(t, repo.updates, 1)
	assert.Len(t, repo.updates[0], 1)
}

func TestCatalogUpdateUnknownProduct(t *testing.T) {
	svc := newTestCatalog(t, newStubProductsRepo(), nil)

	name := "ghost"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Name: &name})

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCatalogDelete(t *testing.T) {
	product := sampleProduct()
	repo := newStubProductsRepo(product)
	svc := newTestCatalog(t, repo, nil)

	require.NoError(t, svc.Delete(context.Background(), product.ID))

	_, err := svc.Get(context.Background(), product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCatalogAttachImage(t *testing.T) {
	product := sampleProduct()
	repo := newStubProductsRepo(product)
	images := &stubImageStore{}
	svc := newTestCatalog(t, repo, images)

	updated, err := svc.AttachImage(context.Background(), product.ID, []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	require.Len(t, updated.Images, 1)
	wantObject := fmt.Sprintf("products/%s/image-0", product.ID)
	assert.Equal(t, []string{wantObject}, images.uploaded)
	assert.Contains(t, updated.Images[0], wantObject)
}

func TestCatalogAttachImageWithoutStore(t *testing.T) {
	svc := newTestCatalog(t, newStubProductsRepo(sampleProduct()), nil)

	_, err := svc.AttachImage(context.Background(), uuid.New(), []byte("png-bytes"), "image/png")

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestCatalogAttachImageCleansUpOnUpdateFailure(t *testing.T) {
	product := sampleProduct()
	repo := newStubProductsRepo(product)
	repo.updateFn = func(ctx context.Context, id uuid.UUID, updates map[string]any) error {
		return errors.New("db down")
	}
	images := &stubImageStore{}
	svc := newTestCatalog(t, repo, images)

	_, err := svc.AttachImage(context.Background(), product.ID, []byte("png-bytes"), "image/png")

	require.Error(t, err)
	require.Len(t, images.deleted, 1)
}

func TestCatalogDetachImage(t *testing.T) {
	product := sampleProduct()
	url := "https://storage.googleapis.com/dropshop-media/products/" + product.ID.String() + "/image-0"
	product.Images = pq.StringArray{url, "https://example.com/other.png"}
	repo := newStubProductsRepo(product)
	images := &stubImageStore{}
	svc := newTestCatalog(t, repo, images)

	updated, err := svc.DetachImage(context.Background(), product.ID, url)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/other.png"}, []string(updated.Images))
	assert.Equal(t, []string{url}, images.deleted)
}

func TestCatalogDetachImageUnknownURL(t *testing.T) {
	product := sampleProduct()
	repo := newStubProductsRepo(product)
	svc := newTestCatalog(t, repo, &stubImageStore{})

	_, err := svc.DetachImage(context.Background(), product.ID, "https://example.com/ghost.png")

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
