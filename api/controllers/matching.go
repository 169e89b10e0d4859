package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aldousari/sooqfresh-backend/api/responses"
	"github.com/aldousari/sooqfresh-backend/api/validators"
	"github.com/aldousari/sooqfresh-backend/internal/matching"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
)

// GetMatches ranks the active offers that can fill one shopping list item.
func GetMatches(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		matches, err := svc.GetMatches(r.Context(), buyerID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, matches)
	}
}

type selectOfferRequest struct {
	ItemID  uuid.UUID `json:"item_id" validate:"required"`
	OfferID uuid.UUID `json:"offer_id" validate:"required"`
}

// SelectOffer pins one vendor offer to a shopping list item.
func SelectOffer(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body selectOfferRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SelectOffer(r.Context(), buyerID, body.ItemID, body.OfferID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
