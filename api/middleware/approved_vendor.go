package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldousari/sooqfresh-backend/api/responses"
	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
	"github.com/aldousari/sooqfresh-backend/pkg/visibility"
)

// UserLoader resolves an authenticated user id to its account record.
type UserLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ApprovedVendor blocks vendor routes until the admin has approved the
// account. Runs after Auth, so the user id is already in the context.
func ApprovedVendor(loader UserLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(UserIDFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			user, err := loader.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown account"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account"))
				return
			}
			// Same rules as buyer-facing visibility, surfaced as 403 since the
			// vendor is talking about their own account.
			if err := visibility.EnsureVendorVisible(user); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor is not approved"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
