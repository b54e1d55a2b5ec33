package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dropshoplabs/dropshop-backend/api/middleware"
	"github.com/dropshoplabs/dropshop-backend/api/responses"
	"github.com/dropshoplabs/dropshop-backend/api/validators"
	cartsvc "github.com/dropshoplabs/dropshop-backend/internal/cart"
	productsvc "github.com/dropshoplabs/dropshop-backend/internal/products"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
)

type cartLineResponse struct {
	ProductID         uuid.UUID        `json:"product_id"`
	Name              string           `json:"name"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	OriginalUnitPrice *decimal.Decimal `json:"original_unit_price,omitempty"`
	Quantity          int              `json:"quantity"`
	ImageURL          string           `json:"image_url,omitempty"`
	Category          string           `json:"category,omitempty"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
}

type cartResponse struct {
	SessionID     string             `json:"session_id"`
	Lines         []cartLineResponse `json:"lines"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TotalQuantity int                `json:"total_quantity"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func newCartResponse(c cartsvc.Cart) cartResponse {
	lines := make([]cartLineResponse, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, cartLineResponse{
			ProductID:         line.ProductID,
			Name:              line.Name,
			UnitPrice:         line.UnitPrice,
			OriginalUnitPrice: line.OriginalUnitPrice,
			Quantity:          line.Quantity,
			ImageURL:          line.ImageURL,
			Category:          line.Category,
			Subtotal:          line.Subtotal(),
		})
	}
	return cartResponse{
		SessionID:     c.SessionID,
		Lines:         lines,
		Subtotal:      c.Subtotal(),
		TotalQuantity: c.TotalQuantity(),
		UpdatedAt:     c.UpdatedAt,
	}
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartFetch returns the session's current cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		snapshot, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartAddItem adds a catalog product to the session's cart. The line
// snapshots the product's current name, prices, image, and category.
func CartAddItem(svc cartsvc.Service, catalog productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.Get(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.InStock {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock"))
			return
		}

		line := cartsvc.Line{
			ProductID:         product.ID,
			Name:              product.Name,
			UnitPrice:         product.Price,
			OriginalUnitPrice: product.OriginalPrice,
			Quantity:          payload.Quantity,
			Category:          product.Category,
		}
		if len(product.Images) > 0 {
			line.ImageURL = product.Images[0]
		}

		snapshot, err := svc.AddLine(r.Context(), middleware.SessionIDFromContext(r.Context()), line)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartUpdateItem replaces the quantity of one line; zero removes it.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.SetQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartRemoveItem drops one line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.RemoveLine(r.Context(), middleware.SessionIDFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartClear empties the session's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		snapshot, err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}
