package controllers

import (
	"net/http"

	"github.com/rlmonteiro/essencia-backend/api/middleware"
	"github.com/rlmonteiro/essencia-backend/api/responses"
	"github.com/rlmonteiro/essencia-backend/api/validators"
	checkoutsvc "github.com/rlmonteiro/essencia-backend/internal/checkout"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
)

// CheckoutState returns the current step and totals for the session.
func CheckoutState(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireCheckoutSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.Current(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CheckoutBegin moves the session from the cart to the address step.
func CheckoutBegin(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireCheckoutSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.Begin(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CheckoutAddress submits the delivery address and advances to payment.
func CheckoutAddress(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireCheckoutSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var form checkoutsvc.AddressForm
		if err := decodeForm(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.SubmitAddress(r.Context(), sessionID, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CheckoutPayment submits the card form. On acknowledgment the cart is
// cleared and the frozen confirmation comes back.
func CheckoutPayment(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireCheckoutSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var form checkoutsvc.PaymentForm
		if err := decodeForm(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.SubmitPayment(r.Context(), sessionID, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

// CheckoutBack steps backward: payment to address, address to cart.
func CheckoutBack(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireCheckoutSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.Back(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// decodeForm parses the body without running the shared validator; the
// checkout service owns form validation so failed fields come back in
// its field-to-message shape.
func decodeForm(r *http.Request, dest any) error {
	return validators.DecodeJSONBodyLenient(r, dest)
}

func requireCheckoutSession(r *http.Request, svc checkoutsvc.Service) (string, error) {
	if svc == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return sessionID, nil
}
