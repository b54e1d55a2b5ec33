package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dropshoplabs/dropshop-backend/api/responses"
	productsvc "github.com/dropshoplabs/dropshop-backend/internal/products"
	"github.com/dropshoplabs/dropshop-backend/pkg/db/models"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
	"github.com/dropshoplabs/dropshop-backend/pkg/types"
)

type productResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	OriginalPrice  *decimal.Decimal `json:"original_price,omitempty"`
	Category       string           `json:"category"`
	Images         []string         `json:"images"`
	Badge          *string          `json:"badge,omitempty"`
	Rating         float64          `json:"rating"`
	Reviews        int              `json:"reviews"`
	Features       []string         `json:"features"`
	Specifications types.JSONMap    `json:"specifications,omitempty"`
	InStock        bool             `json:"in_stock"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type productListResponse struct {
	Products   []productResponse `json:"products"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func newProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:             product.ID,
		Name:           product.Name,
		Description:    product.Description,
		Price:          product.Price,
		OriginalPrice:  product.OriginalPrice,
		Category:       product.Category,
		Images:         product.Images,
		Badge:          product.Badge,
		Rating:         product.Rating,
		Reviews:        product.Reviews,
		Features:       product.Features,
		Specifications: product.Specifications,
		InStock:        product.InStock,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}

func newProductListResponse(list *productsvc.ProductList) productListResponse {
	out := productListResponse{
		Products:   make([]productResponse, 0, len(list.Products)),
		NextCursor: list.NextCursor,
	}
	for i := range list.Products {
		out.Products = append(out.Products, newProductResponse(&list.Products[i]))
	}
	return out
}

// ProductList serves the storefront catalog with optional filters.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filters := productsvc.Filters{
			Category: r.URL.Query().Get("category"),
			Query:    r.URL.Query().Get("q"),
		}
		if r.URL.Query().Get("in_stock") == "true" {
			filters.InStockOnly = true
		}

		list, err := svc.List(r.Context(), paginationParams(r), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductListResponse(list))
	}
}

// ProductDetail serves a single catalog listing.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// ProductCategories serves the distinct category names in the catalog.
func ProductCategories(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]string{"categories": categories})
	}
}
