package controllers

import (
	"net/http"

	"github.com/rlmonteiro/essencia-backend/api/responses"
	"github.com/rlmonteiro/essencia-backend/api/validators"
	authsvc "github.com/rlmonteiro/essencia-backend/internal/auth"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
)

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminAuthLogin exchanges the panel credential for a bearer token.
func AdminAuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
