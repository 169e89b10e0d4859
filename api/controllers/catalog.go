package controllers

import (
	"net/http"
	"strings"

	"github.com/aldousari/sooqfresh-backend/api/responses"
	"github.com/aldousari/sooqfresh-backend/api/validators"
	"github.com/aldousari/sooqfresh-backend/internal/catalog"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
)

// ListProducts serves the public produce catalog with optional category and
// name filters.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := catalog.ListItemsInput{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 100),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProduceCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Validation(err.Error()))
				return
			}
			input.Category = &category
		}

		items, err := svc.ListItems(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// GetProduct serves one catalog entry.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// AdminCreateCatalogItem adds an entry to the shared catalog.
func AdminCreateCatalogItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body catalog.CreateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// AdminUpdateCatalogItem mutates an existing catalog entry.
func AdminUpdateCatalogItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body catalog.UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// AdminDeleteCatalogItem removes a catalog entry.
func AdminDeleteCatalogItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
