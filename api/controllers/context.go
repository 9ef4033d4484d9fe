package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pinnlabs/varejo-backend/api/middleware"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
)

// retailerFromRequest extracts the authenticated retailer id seeded by the
// auth middleware.
func retailerFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.RetailerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "retailer context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid retailer id")
	}
	return id, nil
}
