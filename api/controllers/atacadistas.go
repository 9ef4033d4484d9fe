package controllers

import (
	"net/http"

	"github.com/pinnlabs/varejo-backend/api/responses"
	"github.com/pinnlabs/varejo-backend/api/validators"
	catalogsvc "github.com/pinnlabs/varejo-backend/internal/catalog"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/logger"
)

// WholesalersList returns every registered wholesaler with its payment terms.
func WholesalersList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListWholesalers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// WholesalerDetail returns one wholesaler.
func WholesalerDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		wholesalerID, err := validators.PathUUID(r, "atacadistaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetWholesaler(r.Context(), wholesalerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
