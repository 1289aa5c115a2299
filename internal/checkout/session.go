package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rlmonteiro/essencia-backend/internal/cart"
	"github.com/rlmonteiro/essencia-backend/pkg/enums"
)

// Session tracks one shopper's progress through the checkout flow. It
// exists only between the cart step and the payment acknowledgment;
// card data is never stored on it.
type Session struct {
	SessionID string             `json:"session_id"`
	Step      enums.CheckoutStep `json:"step"`
	Address   *AddressForm       `json:"address,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// State is the checkout view returned to the storefront: the current
// step plus order totals recomputed from the live cart.
type State struct {
	Step        enums.CheckoutStep `json:"step"`
	Items       []cart.LineItem    `json:"items"`
	TotalItems  int                `json:"total_items"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	DeliveryFee decimal.Decimal    `json:"delivery_fee"`
	Total       decimal.Decimal    `json:"total"`
	Address     *AddressForm       `json:"address,omitempty"`
}

// Confirmation is the terminal order summary. Its totals are frozen at
// payment time; the cart is already cleared and the session discarded
// when it is produced.
type Confirmation struct {
	Reference   string          `json:"reference"`
	Items       []cart.LineItem `json:"items"`
	TotalItems  int             `json:"total_items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	Address     AddressForm     `json:"address"`
	CardSuffix  string          `json:"card_suffix"`
	CompletedAt time.Time       `json:"completed_at"`
}
