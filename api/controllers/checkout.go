package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/api/responses"
	"github.com/aldousari/sooqfresh-backend/api/validators"
	"github.com/aldousari/sooqfresh-backend/internal/checkout"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
)

// CheckoutPreview totals a fully selected list without committing anything.
func CheckoutPreview(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("shopping_list_id"))
		listID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "shopping_list_id query parameter required"))
			return
		}

		preview, err := svc.Preview(r.Context(), buyerID, listID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

type confirmCheckoutRequest struct {
	ShoppingListID uuid.UUID `json:"shopping_list_id" validate:"required"`
}

// CheckoutConfirm freezes the list into an immutable order and queues the
// vendor notification fan-out. Offer stock is not touched: vendors manage
// their own quantities through the offer endpoints.
func CheckoutConfirm(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body confirmCheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Confirm(r.Context(), buyerID, body.ShoppingListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
