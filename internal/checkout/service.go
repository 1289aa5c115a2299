package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rlmonteiro/essencia-backend/internal/cart"
	"github.com/rlmonteiro/essencia-backend/pkg/enums"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
	redisclient "github.com/rlmonteiro/essencia-backend/pkg/redis"
)

type cartReader interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) (*cart.Cart, error)
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CheckoutKey(sessionID string) string
}

// Service drives the checkout flow: cart, address, payment,
// confirmation. Forward transitions are guarded; backward transitions
// never skip a step.
type Service interface {
	Current(ctx context.Context, sessionID string) (*State, error)
	Begin(ctx context.Context, sessionID string) (*State, error)
	SubmitAddress(ctx context.Context, sessionID string, form AddressForm) (*State, error)
	SubmitPayment(ctx context.Context, sessionID string, form PaymentForm) (*Confirmation, error)
	Back(ctx context.Context, sessionID string) (*State, error)
}

// Options tune the checkout flow.
type Options struct {
	DeliveryFee  decimal.Decimal
	PaymentDelay time.Duration
	SessionTTL   time.Duration
}

type service struct {
	carts        cartReader
	kv           kvStore
	logg         *logger.Logger
	deliveryFee  decimal.Decimal
	paymentDelay time.Duration
	ttl          time.Duration
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService builds the checkout service.
func NewService(carts cartReader, kv kvStore, logg *logger.Logger, opts Options) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if kv == nil {
		return nil, fmt.Errorf("key-value store required")
	}
	if opts.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("delivery fee cannot be negative")
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	return &service{
		carts:        carts,
		kv:           kv,
		logg:         logg,
		deliveryFee:  opts.DeliveryFee,
		paymentDelay: opts.PaymentDelay,
		ttl:          opts.SessionTTL,
		now:          time.Now,
		sessions:     map[string]*Session{},
	}, nil
}

func (s *service) Current(ctx context.Context, sessionID string) (*State, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	session := s.load(ctx, sessionID)
	s.mu.Unlock()

	return s.state(session, current), nil
}

func (s *service) Begin(ctx context.Context, sessionID string) (*State, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.TotalItems() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.load(ctx, sessionID)
	if session == nil {
		now := s.now().UTC()
		session = &Session{
			SessionID: sessionID,
			Step:      enums.CheckoutStepAddress,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.persist(ctx, session)
	}
	return s.state(session, current), nil
}

func (s *service) SubmitAddress(ctx context.Context, sessionID string, form AddressForm) (*State, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.load(ctx, sessionID)
	if session == nil || session.Step != enums.CheckoutStepAddress {
		return nil, stepConflict(enums.CheckoutStepAddress, session)
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	session.Address = &form
	session.Step = enums.CheckoutStepPayment
	session.UpdatedAt = s.now().UTC()
	s.persist(ctx, session)
	return s.state(session, current), nil
}

func (s *service) SubmitPayment(ctx context.Context, sessionID string, form PaymentForm) (*Confirmation, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.TotalItems() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	s.mu.Lock()
	session := s.load(ctx, sessionID)
	if session == nil || session.Step != enums.CheckoutStepPayment || session.Address == nil {
		s.mu.Unlock()
		return nil, stepConflict(enums.CheckoutStepPayment, session)
	}
	address := *session.Address
	s.mu.Unlock()

	if err := validateForm(form); err != nil {
		return nil, err
	}

	if err := s.acknowledgePayment(ctx); err != nil {
		return nil, err
	}

	subtotal := current.Subtotal()
	confirmation := &Confirmation{
		Reference:   uuid.NewString(),
		Items:       current.Items,
		TotalItems:  current.TotalItems(),
		Subtotal:    subtotal,
		DeliveryFee: s.deliveryFee,
		Total:       subtotal.Add(s.deliveryFee),
		Address:     address,
		CardSuffix:  form.cardSuffix(),
		CompletedAt: s.now().UTC(),
	}

	// Payment is acknowledged; the cart is emptied and the session
	// discarded together so the shopper cannot land between the two.
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.discard(ctx, sessionID)
	s.mu.Unlock()
	if _, err := s.carts.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	return confirmation, nil
}

func (s *service) Back(ctx context.Context, sessionID string) (*State, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.load(ctx, sessionID)
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no checkout in progress")
	}

	switch session.Step {
	case enums.CheckoutStepPayment:
		session.Step = enums.CheckoutStepAddress
		session.UpdatedAt = s.now().UTC()
		s.persist(ctx, session)
	case enums.CheckoutStepAddress:
		delete(s.sessions, sessionID)
		s.discard(ctx, sessionID)
		session = nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot step back from "+session.Step.String())
	}

	return s.state(session, current), nil
}

// acknowledgePayment simulates the processor round trip with a fixed
// delay. The context can cancel the wait.
func (s *service) acknowledgePayment(ctx context.Context) error {
	if s.paymentDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.paymentDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "payment acknowledgment interrupted")
	}
}

// state builds the storefront view for the given session. A nil
// session means the shopper is still on the cart step.
func (s *service) state(session *Session, current *cart.Cart) *State {
	subtotal := current.Subtotal()
	state := &State{
		Step:        enums.CheckoutStepCart,
		Items:       current.Items,
		TotalItems:  current.TotalItems(),
		Subtotal:    subtotal,
		DeliveryFee: s.deliveryFee,
		Total:       subtotal.Add(s.deliveryFee),
	}
	if session != nil {
		state.Step = session.Step
		state.Address = session.Address
	}
	return state
}

// load returns the session pinned after a failed store write, falling
// back to the durable store. Sessions are never cached on reads: the
// map holds only sessions whose last write failed, keeping it bounded
// against anonymous traffic. Store failures are logged and swallowed.
// Callers hold s.mu.
func (s *service) load(ctx context.Context, sessionID string) *Session {
	if pinned, ok := s.sessions[sessionID]; ok {
		return pinned
	}

	raw, err := s.kv.Get(ctx, s.kv.CheckoutKey(sessionID))
	switch {
	case err == nil:
		session := &Session{}
		if unmarshalErr := json.Unmarshal([]byte(raw), session); unmarshalErr != nil {
			s.warn(ctx, sessionID, "checkout.load.decode_failed", unmarshalErr)
			return nil
		}
		session.SessionID = sessionID
		return session
	case errors.Is(err, redisclient.ErrNotFound):
		return nil
	default:
		s.warn(ctx, sessionID, "checkout.load.store_unavailable", err)
		return nil
	}
}

// persist writes the session through to the durable store, pinning it
// in memory when the write fails so the flow survives a store outage.
// Callers hold s.mu.
func (s *service) persist(ctx context.Context, session *Session) {
	payload, err := json.Marshal(session)
	if err != nil {
		s.warn(ctx, session.SessionID, "checkout.persist.encode_failed", err)
		s.sessions[session.SessionID] = session
		return
	}
	if err := s.kv.Set(ctx, s.kv.CheckoutKey(session.SessionID), string(payload), s.ttl); err != nil {
		s.warn(ctx, session.SessionID, "checkout.persist.store_unavailable", err)
		s.sessions[session.SessionID] = session
		return
	}
	delete(s.sessions, session.SessionID)
}

func (s *service) discard(ctx context.Context, sessionID string) {
	if err := s.kv.Del(ctx, s.kv.CheckoutKey(sessionID)); err != nil {
		s.warn(ctx, sessionID, "checkout.discard.store_unavailable", err)
	}
}

func (s *service) warn(ctx context.Context, sessionID, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}

func stepConflict(expected enums.CheckoutStep, session *Session) error {
	actual := enums.CheckoutStepCart
	if session != nil {
		actual = session.Step
	}
	return pkgerrors.New(
		pkgerrors.CodeStateConflict,
		fmt.Sprintf("checkout is on step %s, expected %s", actual, expected),
	)
}

func validateSessionID(sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
