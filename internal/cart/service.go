package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
	redisclient "github.com/rlmonteiro/essencia-backend/pkg/redis"
	"github.com/shopspring/decimal"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// Service exposes the cart operations consumed by the storefront and the
// checkout flow.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, input ItemInput) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Cart, error)
	Clear(ctx context.Context, sessionID string) (*Cart, error)
}

// ItemInput is the product reference captured when the shopper clicks
// "add to cart".
type ItemInput struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Image *string
}

type service struct {
	kv   kvStore
	logg *logger.Logger
	ttl  time.Duration

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewService builds a cart service backed by the provided key-value store.
// The store is authoritative while its writes succeed; a cart is pinned
// in memory only after a failed write so the session continues
// uninterrupted through a store outage.
func NewService(kv kvStore, logg *logger.Logger, ttl time.Duration) (Service, error) {
	if kv == nil {
		return nil, fmt.Errorf("key-value store required")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &service{
		kv:    kv,
		logg:  logg,
		ttl:   ttl,
		carts: map[string]*Cart{},
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, sessionID).snapshot(), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, input ItemInput) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, sessionID)
	cart.add(LineItem{
		ID:    strings.TrimSpace(input.ID),
		Name:  input.Name,
		Price: input.Price,
		Image: input.Image,
	})
	s.persist(ctx, cart)
	return cart.snapshot(), nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, sessionID)
	cart.remove(itemID)
	s.persist(ctx, cart)
	return cart.snapshot(), nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, sessionID)
	cart.setQuantity(itemID, quantity)
	s.persist(ctx, cart)
	return cart.snapshot(), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, sessionID)
	cart.clear()
	s.persist(ctx, cart)
	return cart.snapshot(), nil
}

// load returns the cart pinned after a failed store write, falling back
// to the durable store and finally to a fresh empty cart. Store read
// failures are logged and swallowed. Carts are never cached on reads:
// the map holds only sessions whose last write failed, so anonymous
// traffic minting fresh session IDs cannot grow it. Callers hold s.mu.
func (s *service) load(ctx context.Context, sessionID string) *Cart {
	if pinned, ok := s.carts[sessionID]; ok {
		return pinned
	}

	cart := &Cart{SessionID: sessionID}
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	switch {
	case err == nil:
		if unmarshalErr := json.Unmarshal([]byte(raw), cart); unmarshalErr != nil {
			s.warn(ctx, sessionID, "cart.load.decode_failed", unmarshalErr)
			cart = &Cart{SessionID: sessionID}
		}
		cart.SessionID = sessionID
	case errors.Is(err, redisclient.ErrNotFound):
		// first touch of this session
	default:
		s.warn(ctx, sessionID, "cart.load.store_unavailable", err)
	}

	return cart
}

// persist writes the cart through to the durable store. Failures are
// logged, never propagated: the cart is pinned in memory instead and
// stays authoritative until a later write lands. Callers hold s.mu.
func (s *service) persist(ctx context.Context, cart *Cart) {
	payload, err := json.Marshal(cart)
	if err != nil {
		s.warn(ctx, cart.SessionID, "cart.persist.encode_failed", err)
		s.carts[cart.SessionID] = cart
		return
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(cart.SessionID), string(payload), s.ttl); err != nil {
		s.warn(ctx, cart.SessionID, "cart.persist.store_unavailable", err)
		s.carts[cart.SessionID] = cart
		return
	}
	delete(s.carts, cart.SessionID)
}

func (s *service) warn(ctx context.Context, sessionID, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}

// snapshot copies the cart so callers cannot mutate the cached state.
func (c *Cart) snapshot() *Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{SessionID: c.SessionID, Items: items}
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
