package checkout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"furnistore/internal/model"
)

// Field names used as keys of FieldErrors. They match the JSON names of
// model.ShippingDetails.
const (
	FieldFullName   = "fullName"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldProvince   = "province"
	FieldPostalCode = "postalCode"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Prefill seeds the contact fields of a new checkout from the signed-in
// shopper, if any.
type Prefill struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Form is the draft a shopper fills in while walking the checkout.
type Form struct {
	Shipping      model.ShippingDetails `json:"shipping"`
	PaymentMethod model.PaymentMethod   `json:"paymentMethod"`
}

func newForm(prefill *Prefill) Form {
	f := Form{PaymentMethod: model.DefaultPaymentMethod}
	if prefill != nil {
		f.Shipping.FullName = prefill.Name
		f.Shipping.Email = prefill.Email
		f.Shipping.Phone = prefill.Phone
		f.Shipping.Address = prefill.Address
	}
	return f
}

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

// Fields returns the failing field names in sorted order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidationError blocks the move out of the shipping step.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid shipping details: %s", strings.Join(e.Fields.Fields(), ", "))
}

// Unwrap lets callers match with errors.Is(err, model.ErrValidationFailed).
func (e *ValidationError) Unwrap() error {
	return model.ErrValidationFailed
}

// ValidateShipping checks that every required field is filled in and that
// the email looks like an address. Notes are optional.
func ValidateShipping(d model.ShippingDetails) FieldErrors {
	errs := FieldErrors{}

	required := []struct {
		field   string
		value   string
		message string
	}{
		{FieldFullName, d.FullName, "Full name is required"},
		{FieldEmail, d.Email, "Email is required"},
		{FieldPhone, d.Phone, "Phone number is required"},
		{FieldAddress, d.Address, "Address is required"},
		{FieldCity, d.City, "City is required"},
		{FieldProvince, d.Province, "Province is required"},
		{FieldPostalCode, d.PostalCode, "Postal code is required"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.field] = r.message
		}
	}

	if _, blank := errs[FieldEmail]; !blank && !emailPattern.MatchString(strings.TrimSpace(d.Email)) {
		errs[FieldEmail] = "Email is invalid"
	}

	return errs
}

// changedFields lists the shipping fields whose values differ between a and b.
func changedFields(a, b model.ShippingDetails) []string {
	var changed []string
	pairs := []struct {
		field string
		a, b  string
	}{
		{FieldFullName, a.FullName, b.FullName},
		{FieldEmail, a.Email, b.Email},
		{FieldPhone, a.Phone, b.Phone},
		{FieldAddress, a.Address, b.Address},
		{FieldCity, a.City, b.City},
		{FieldProvince, a.Province, b.Province},
		{FieldPostalCode, a.PostalCode, b.PostalCode},
	}
	for _, p := range pairs {
		if p.a != p.b {
			changed = append(changed, p.field)
		}
	}
	return changed
}
