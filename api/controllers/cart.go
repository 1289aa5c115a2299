package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rlmonteiro/essencia-backend/api/middleware"
	"github.com/rlmonteiro/essencia-backend/api/responses"
	"github.com/rlmonteiro/essencia-backend/api/validators"
	cartsvc "github.com/rlmonteiro/essencia-backend/internal/cart"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
	"github.com/rlmonteiro/essencia-backend/pkg/types"
)

type cartItemRequest struct {
	ID    string          `json:"id" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Image *string         `json:"image,omitempty"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	SessionID         string             `json:"session_id"`
	Items             []cartsvc.LineItem `json:"items"`
	TotalItems        int                `json:"total_items"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	SubtotalFormatted string             `json:"subtotal_formatted"`
}

func newCartResponse(c *cartsvc.Cart) cartResponse {
	subtotal := c.Subtotal()
	return cartResponse{
		SessionID:         c.SessionID,
		Items:             c.Items,
		TotalItems:        c.TotalItems(),
		Subtotal:          subtotal,
		SubtotalFormatted: types.FormatBRL(subtotal),
	}
}

// GetCart returns the session cart with recomputed totals.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// AddCartItem puts the displayed product snapshot into the cart. Adding
// the same item again only bumps its quantity.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddItem(r.Context(), sessionID, cartsvc.ItemInput{
			ID:    payload.ID,
			Name:  payload.Name,
			Price: payload.Price,
			Image: payload.Image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(cart))
	}
}

// UpdateCartItem sets a line item quantity; zero or less removes it.
func UpdateCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID := validators.SanitizeString(itemIDParam(r), 64)
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		var payload cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateQuantity(r.Context(), sessionID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// RemoveCartItem drops a line item; absent items are a no-op.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID := validators.SanitizeString(itemIDParam(r), 64)
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		cart, err := svc.RemoveItem(r.Context(), sessionID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// ClearCart empties the cart unconditionally.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Clear(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

func requireSession(r *http.Request, svc cartsvc.Service) (string, error) {
	if svc == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return sessionID, nil
}

func itemIDParam(r *http.Request) string {
	return chi.URLParam(r, "itemId")
}
