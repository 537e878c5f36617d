// Package checkout walks a shopper from shipping details through payment
// selection to a placed order.
//
// The flow is a fixed table of states and events (see transitions). Moving
// forward out of the shipping step is guarded by field validation; moving
// back is always allowed and keeps whatever was entered.
package checkout

import (
	"sync"
	"sync/atomic"
	"time"

	"furnistore/internal/cart"
	"furnistore/internal/model"
	"furnistore/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultClearDelay is how long the cart survives after an order is placed,
// so the confirmation can still show what was bought.
const DefaultClearDelay = 3 * time.Second

// Cart is what the checkout needs from the cart store.
type Cart interface {
	Items() []model.LineItem
	IsEmpty() bool
	Clear()
}

// View is a read-only copy of a machine's state for presentation.
type View struct {
	State  State             `json:"state"`
	Step   int               `json:"step"`
	Form   Form              `json:"form"`
	Errors FieldErrors       `json:"errors,omitempty"`
	Items  []model.LineItem  `json:"items"`
	Totals model.OrderTotals `json:"totals"`
	Order  *model.Order      `json:"order,omitempty"`
}

// Machine is one checkout session. It is safe for concurrent use.
type Machine struct {
	mu         sync.Mutex
	cart       Cart
	state      State
	form       Form
	errors     FieldErrors
	order      *model.Order
	numbers    *NumberGenerator
	afterFunc  cart.AfterFunc
	clearDelay time.Duration
	now        func() time.Time
	logger     zerolog.Logger

	// set between a successful Submit and the delayed cart clear
	clearPending atomic.Bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithClearDelay overrides DefaultClearDelay.
func WithClearDelay(d time.Duration) Option {
	return func(m *Machine) {
		m.clearDelay = d
	}
}

// WithAfterFunc replaces the timer used to clear the cart after submission.
func WithAfterFunc(fn cart.AfterFunc) Option {
	return func(m *Machine) {
		m.afterFunc = fn
	}
}

// WithNumberGenerator shares an order number generator between sessions.
func WithNumberGenerator(g *NumberGenerator) Option {
	return func(m *Machine) {
		m.numbers = g
	}
}

// WithClock replaces the clock used to timestamp orders.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

func timerAfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Start opens a checkout in the shipping step. It refuses with
// model.ErrEmptyCart when there is nothing to buy.
func Start(c Cart, prefill *Prefill, logger zerolog.Logger, opts ...Option) (*Machine, error) {
	logger = logger.With().Str("component", "checkout").Logger()

	if c.IsEmpty() {
		logger.Debug().Msg("checkout refused: cart is empty")
		return nil, model.ErrEmptyCart
	}

	m := &Machine{
		cart:       c,
		state:      StateShippingInfo,
		form:       newForm(prefill),
		errors:     FieldErrors{},
		clearDelay: DefaultClearDelay,
		afterFunc:  timerAfterFunc,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.numbers == nil {
		m.numbers = NewNumberGenerator()
	}

	m.logger.Info().
		Bool("prefilled", prefill != nil).
		Msg("checkout started")

	return m, nil
}

// State returns the current step.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Form returns a copy of the draft.
func (m *Machine) Form() Form {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.form
}

// Errors returns a copy of the field errors from the last failed attempt to
// leave the shipping step.
func (m *Machine) Errors() FieldErrors {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.copyErrors()
}

// Order returns the placed order, or nil before completion.
func (m *Machine) Order() *model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.order
}

// View returns everything a presentation layer needs in one read. Before
// completion items and totals are live from the cart; afterwards they come
// from the order snapshot.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		State:  m.state,
		Step:   m.state.Step(),
		Form:   m.form,
		Errors: m.copyErrors(),
		Order:  m.order,
	}
	if m.order != nil {
		v.Items = m.order.Items
		v.Totals = m.order.Totals
	} else {
		v.Items = m.cart.Items()
		v.Totals = pricing.OrderTotals(v.Items)
	}
	return v
}

// SetShipping replaces the shipping draft. It is only allowed in the
// shipping step. Errors recorded for fields whose value changed are dropped.
func (m *Machine) SetShipping(details model.ShippingDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateShippingInfo {
		return model.ErrFormLocked
	}

	for _, field := range changedFields(m.form.Shipping, details) {
		delete(m.errors, field)
	}
	m.form.Shipping = details
	return nil
}

// SelectPayment picks the payment method. It is only allowed in the payment
// step.
func (m *Machine) SelectPayment(method model.PaymentMethod) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePaymentMethod {
		return model.ErrInvalidTransition
	}
	if !method.Valid() {
		return model.ErrInvalidPaymentMethod
	}

	m.form.PaymentMethod = method
	m.logger.Debug().Str("payment_method", string(method)).Msg("payment method selected")
	return nil
}

// Next advances one step. Leaving the shipping step validates the form; on
// failure it returns a *ValidationError and the state does not change.
func (m *Machine) Next() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	to, ok := m.state.target(EventNext)
	if !ok {
		return m.state, model.ErrInvalidTransition
	}

	switch m.state {
	case StateShippingInfo:
		errs := ValidateShipping(m.form.Shipping)
		m.errors = errs
		if len(errs) > 0 {
			m.logger.Debug().
				Strs("fields", errs.Fields()).
				Msg("shipping details rejected")
			return m.state, &ValidationError{Fields: copyFieldErrors(errs)}
		}
	case StatePaymentMethod:
		if !m.form.PaymentMethod.Valid() {
			return m.state, model.ErrInvalidPaymentMethod
		}
	}

	m.move(to)
	return m.state, nil
}

// Back returns to the previous step without validating anything.
func (m *Machine) Back() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	to, ok := m.state.target(EventBack)
	if !ok {
		return m.state, model.ErrInvalidTransition
	}

	m.move(to)
	return m.state, nil
}

// Submit places the order from the review step. The order snapshots the
// cart as it is now; the cart itself is cleared after the clear delay.
func (m *Machine) Submit() (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	to, ok := m.state.target(EventSubmit)
	if !ok {
		return nil, model.ErrInvalidTransition
	}

	items := m.cart.Items()
	if len(items) == 0 {
		m.logger.Warn().Msg("submit refused: cart emptied during checkout")
		return nil, model.ErrEmptyCart
	}

	order := &model.Order{
		ID:            uuid.New(),
		OrderNumber:   m.numbers.Next(),
		Items:         items,
		Totals:        pricing.OrderTotals(items),
		Shipping:      m.form.Shipping,
		PaymentMethod: m.form.PaymentMethod,
		PlacedAt:      m.now(),
	}
	m.order = order
	m.move(to)

	m.logger.Info().
		Str("order_number", order.OrderNumber).
		Str("grand_total", order.Totals.GrandTotal.String()).
		Int("line_count", len(items)).
		Msg("order placed")

	c := m.cart
	logger := m.logger
	m.clearPending.Store(true)
	m.afterFunc(m.clearDelay, func() {
		c.Clear()
		m.clearPending.Store(false)
		logger.Debug().Str("order_number", order.OrderNumber).Msg("cart cleared after order")
	})

	return order, nil
}

// ClearPending reports whether an order was placed and its cart has not
// been cleared yet.
func (m *Machine) ClearPending() bool {
	return m.clearPending.Load()
}

func (m *Machine) move(to State) {
	m.logger.Info().
		Str("from", string(m.state)).
		Str("to", string(to)).
		Msg("checkout step changed")
	m.state = to
}

func (m *Machine) copyErrors() FieldErrors {
	return copyFieldErrors(m.errors)
}

func copyFieldErrors(errs FieldErrors) FieldErrors {
	out := make(FieldErrors, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
