package session

import (
	"context"

	"furnistore/internal/checkout"
)

// Identity is the signed-in shopper.
type Identity struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Prefill returns the checkout fields the identity can fill in. A nil
// identity yields nil.
func (id *Identity) Prefill() *checkout.Prefill {
	if id == nil {
		return nil
	}
	return &checkout.Prefill{
		Name:    id.Name,
		Email:   id.Email,
		Phone:   id.Phone,
		Address: id.Address,
	}
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}

// PrefillFromContext is FromContext followed by Prefill.
func PrefillFromContext(ctx context.Context) *checkout.Prefill {
	id, _ := FromContext(ctx)
	return id.Prefill()
}
