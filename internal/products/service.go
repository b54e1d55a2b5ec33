package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
	"github.com/dropshoplabs/dropshop-backend/pkg/pagination"
)

// Service exposes catalog reads for shoppers and catalog writes for admins.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters Filters) (*ProductList, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AttachImage(ctx context.Context, id uuid.UUID, data []byte, contentType string) (*models.Product, error)
	DetachImage(ctx context.Context, id uuid.UUID, url string) (*models.Product, error)
}

type service struct {
	repo     Repository
	images   ImageStore
	validate *validator.Validate
	logg     *logger.Logger
}

// NewService builds the catalog service. The image store may be nil when the
// deployment has no bucket configured; image uploads then fail cleanly.
func NewService(repo Repository, images ImageStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		images:   images,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logg:     logg,
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*ProductList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}

	product := &models.Product{
		Name:           input.Name,
		Description:    input.Description,
		Price:          input.Price,
		OriginalPrice:  input.OriginalPrice,
		Category:       input.Category,
		Images:         pq.StringArray(input.Images),
		Badge:          input.Badge,
		Features:       pq.StringArray(input.Features),
		Specifications: input.Specifications,
		InStock:        inStock,
	}
	if product.Images == nil {
		product.Images = pq.StringArray{}
	}
	if product.Features == nil {
		product.Features = pq.StringArray{}
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", created.ID.String()), "product created")
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.OriginalPrice != nil {
		updates["original_price"] = *input.OriginalPrice
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Badge != nil {
		updates["badge"] = *input.Badge
	}
	if input.Features != nil {
		updates["features"] = pq.StringArray(input.Features)
	}
	if input.Specifications != nil {
		updates["specifications"] = input.Specifications
	}
	if input.InStock != nil {
		updates["in_stock"] = *input.InStock
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "product deleted")
	return nil
}

// AttachImage uploads the image bytes and appends the resulting public URL
// to the product's image list.
func (s *service) AttachImage(ctx context.Context, id uuid.UUID, data []byte, contentType string) (*models.Product, error) {
	if s.images == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image storage not configured")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image payload is empty")
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	object := fmt.Sprintf("products/%s/image-%d", product.ID, len(product.Images))
	url, err := s.images.Upload(ctx, object, data, contentType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload product image")
	}

	images := append(pq.StringArray{}, product.Images...)
	images = append(images, url)
	if err := s.repo.Update(ctx, id, map[string]any{"images": images}); err != nil {
		// Orphaned object cleanup is best effort.
		if delErr := s.images.Delete(ctx, url); delErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "object", object), "removing orphaned image failed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach product image")
	}

	product.Images = images
	return product, nil
}

// DetachImage removes the URL from the product's image list and then deletes
// the backing object. The list is the source of truth; a failed object delete
// only leaves an orphan behind.
func (s *service) DetachImage(ctx context.Context, id uuid.UUID, url string) (*models.Product, error) {
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url required")
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	images := pq.StringArray{}
	found := false
	for _, img := range product.Images {
		if img == url {
			found = true
			continue
		}
		images = append(images, img)
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found on product")
	}

	if err := s.repo.Update(ctx, id, map[string]any{"images": images}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach product image")
	}

	if s.images != nil {
		if err := s.images.Delete(ctx, url); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "url", url), "deleting image object failed")
		}
	}

	product.Images = images
	return product, nil
}
