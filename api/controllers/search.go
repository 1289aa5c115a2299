package controllers

import (
	"net/http"

	"github.com/rlmonteiro/essencia-backend/api/responses"
	"github.com/rlmonteiro/essencia-backend/api/validators"
	searchsvc "github.com/rlmonteiro/essencia-backend/internal/search"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
)

const maxQueryLen = 120

// Search runs the cross-catalog search for the storefront search box.
func Search(svc searchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		query := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen)
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 10)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.Search(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(results) > limit {
			results = results[:limit]
		}

		responses.WriteSuccess(w, map[string]any{
			"query":   query,
			"results": results,
		})
	}
}
