package service

import (
	"context"
	"sync"

	"furnistore/internal/checkout"
	"furnistore/internal/model"
	"furnistore/internal/session"

	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService. It owns at most one
// checkout.Machine, the session of the one cart it serves.
type checkoutService struct {
	mu      sync.Mutex
	cart    checkout.Cart
	machine *checkout.Machine
	opts    []checkout.Option
	logger  zerolog.Logger
}

// NewCheckoutService creates a checkout service for c. opts are passed to
// every machine it starts; a shared order number generator is added so
// numbers stay unique across sessions.
func NewCheckoutService(c checkout.Cart, logger zerolog.Logger, opts ...checkout.Option) CheckoutService {
	all := append([]checkout.Option{checkout.WithNumberGenerator(checkout.NewNumberGenerator())}, opts...)

	return &checkoutService{
		cart:   c,
		opts:   all,
		logger: logger.With().Str("service", "checkout").Logger(),
	}
}

func (s *checkoutService) Begin(ctx context.Context) (checkout.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine != nil && s.machine.State().Terminal() && (s.machine.ClearPending() || s.cart.IsEmpty()) {
		return s.machine.View(), nil
	}

	prefill := session.PrefillFromContext(ctx)
	m, err := checkout.Start(s.cart, prefill, s.logger, s.opts...)
	if err != nil {
		return checkout.View{}, err
	}

	if s.machine != nil {
		s.logger.Debug().
			Str("previous_state", string(s.machine.State())).
			Msg("replacing previous checkout")
	}
	s.machine = m

	return m.View(), nil
}

func (s *checkoutService) Current(ctx context.Context) (checkout.View, error) {
	m, err := s.active()
	if err != nil {
		return checkout.View{}, err
	}
	return m.View(), nil
}

func (s *checkoutService) SetShipping(ctx context.Context, details model.ShippingDetails) (checkout.View, error) {
	return s.apply(func(m *checkout.Machine) error {
		return m.SetShipping(details)
	})
}

func (s *checkoutService) SelectPayment(ctx context.Context, method model.PaymentMethod) (checkout.View, error) {
	return s.apply(func(m *checkout.Machine) error {
		return m.SelectPayment(method)
	})
}

func (s *checkoutService) Next(ctx context.Context) (checkout.View, error) {
	return s.apply(func(m *checkout.Machine) error {
		_, err := m.Next()
		return err
	})
}

func (s *checkoutService) Back(ctx context.Context) (checkout.View, error) {
	return s.apply(func(m *checkout.Machine) error {
		_, err := m.Back()
		return err
	})
}

func (s *checkoutService) Submit(ctx context.Context) (checkout.View, error) {
	return s.apply(func(m *checkout.Machine) error {
		_, err := m.Submit()
		return err
	})
}

func (s *checkoutService) Abandon(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine == nil {
		return model.ErrNoCheckout
	}

	s.logger.Info().Str("state", string(s.machine.State())).Msg("checkout abandoned")
	s.machine = nil
	return nil
}

func (s *checkoutService) active() (*checkout.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine == nil {
		return nil, model.ErrNoCheckout
	}
	return s.machine, nil
}

// apply runs op on the active machine and returns the resulting view even
// when op fails, so callers can show field errors next to the form.
func (s *checkoutService) apply(op func(*checkout.Machine) error) (checkout.View, error) {
	m, err := s.active()
	if err != nil {
		return checkout.View{}, err
	}

	err = op(m)
	return m.View(), err
}
