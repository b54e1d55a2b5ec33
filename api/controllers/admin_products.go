package controllers

import (
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dropshoplabs/dropshop-backend/api/responses"
	"github.com/dropshoplabs/dropshop-backend/api/validators"
	productsvc "github.com/dropshoplabs/dropshop-backend/internal/products"
	"github.com/dropshoplabs/dropshop-backend/pkg/config"
	pkgerrors "github.com/dropshoplabs/dropshop-backend/pkg/errors"
	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
	"github.com/dropshoplabs/dropshop-backend/pkg/types"
)

type createProductRequest struct {
	Name           string           `json:"name" validate:"required"`
	Description    string           `json:"description" validate:"required"`
	Price          decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice  *decimal.Decimal `json:"original_price,omitempty"`
	Category       string           `json:"category" validate:"required"`
	Images         []string         `json:"images,omitempty"`
	Badge          *string          `json:"badge,omitempty"`
	Features       []string         `json:"features,omitempty"`
	Specifications types.JSONMap    `json:"specifications,omitempty"`
	InStock        *bool            `json:"in_stock,omitempty"`
}

type updateProductRequest struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice  *decimal.Decimal `json:"original_price,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Badge          *string          `json:"badge,omitempty"`
	Features       []string         `json:"features,omitempty"`
	Specifications types.JSONMap    `json:"specifications,omitempty"`
	InStock        *bool            `json:"in_stock,omitempty"`
}

// AdminProductCreate handles new catalog listings.
func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), productsvc.CreateInput{
			Name:           payload.Name,
			Description:    payload.Description,
			Price:          payload.Price,
			OriginalPrice:  payload.OriginalPrice,
			Category:       payload.Category,
			Images:         payload.Images,
			Badge:          payload.Badge,
			Features:       payload.Features,
			Specifications: payload.Specifications,
			InStock:        payload.InStock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(product))
	}
}

// AdminProductUpdate handles partial listing updates.
func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, productsvc.UpdateInput{
			Name:           payload.Name,
			Description:    payload.Description,
			Price:          payload.Price,
			OriginalPrice:  payload.OriginalPrice,
			Category:       payload.Category,
			Badge:          payload.Badge,
			Features:       payload.Features,
			Specifications: payload.Specifications,
			InStock:        payload.InStock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// AdminProductDelete removes a catalog listing.
func AdminProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminProductUploadImage accepts raw image bytes and attaches the stored
// object's public URL to the listing.
func AdminProductUploadImage(svc productsvc.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
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

		maxBytes := int64(media.MaxUploadMB) << 20
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image payload"))
			return
		}
		if int64(len(data)) > maxBytes {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds upload limit"))
			return
		}

		product, err := svc.AttachImage(r.Context(), id, data, r.Header.Get("Content-Type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

type deleteImageRequest struct {
	URL string `json:"url" validate:"required"`
}

// AdminProductDeleteImage removes an image URL from the listing and deletes
// the backing object.
func AdminProductDeleteImage(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload deleteImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.DetachImage(r.Context(), id, payload.URL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}
