package valueobject

import (
	"regexp"
	"strings"

	"github.com/pantryfresh/backend/internal/domain/shared"
)

var (
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phonePattern   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// Address is the delivery address captured on an order.
// It is immutable and denormalized so later profile edits do not change placed orders.
type Address struct {
	fullName string
	phone    string
	line1    string
	line2    string
	city     string
	state    string
	pincode  string
}

// AddressParams carries the raw fields used to build an Address
type AddressParams struct {
	FullName string
	Phone    string
	Line1    string
	Line2    string
	City     string
	State    string
	Pincode  string
}

// NewAddress validates the params and returns an Address
func NewAddress(p AddressParams) (Address, error) {
	addr := Address{
		fullName: strings.TrimSpace(p.FullName),
		phone:    strings.TrimSpace(p.Phone),
		line1:    strings.TrimSpace(p.Line1),
		line2:    strings.TrimSpace(p.Line2),
		city:     strings.TrimSpace(p.City),
		state:    strings.TrimSpace(p.State),
		pincode:  strings.TrimSpace(p.Pincode),
	}

	switch {
	case addr.fullName == "":
		return Address{}, shared.NewValidationError("INVALID_ADDRESS", "Recipient name is required")
	case len(addr.fullName) > 100:
		return Address{}, shared.NewValidationError("INVALID_ADDRESS", "Recipient name cannot exceed 100 characters")
	case !phonePattern.MatchString(addr.phone):
		return Address{}, shared.NewValidationError("INVALID_PHONE", "Phone must be a 10 digit mobile number")
	case addr.line1 == "":
		return Address{}, shared.NewValidationError("INVALID_ADDRESS", "Address line 1 is required")
	case len(addr.line1) > 200 || len(addr.line2) > 200:
		return Address{}, shared.NewValidationError("INVALID_ADDRESS", "Address lines cannot exceed 200 characters")
	case addr.city == "":
		return Address{}, shared.NewValidationError("INVALID_ADDRESS", "City is required")
	case addr.state == "":
		return Address{}, shared.NewValidationError("INVALID_ADDRESS", "State is required")
	case !IsValidPincode(addr.pincode):
		return Address{}, shared.NewValidationError("INVALID_PINCODE", "Pincode must be 6 digits")
	}

	return addr, nil
}

// RestoreAddress rebuilds a stored address without validating it
func RestoreAddress(p AddressParams) Address {
	return Address{
		fullName: p.FullName,
		phone:    p.Phone,
		line1:    p.Line1,
		line2:    p.Line2,
		city:     p.City,
		state:    p.State,
		pincode:  p.Pincode,
	}
}

// IsValidPincode reports whether s is a well-formed 6 digit postal index number
func IsValidPincode(s string) bool {
	return pincodePattern.MatchString(s)
}

// FullName returns the recipient name
func (a Address) FullName() string { return a.fullName }

// Phone returns the contact phone
func (a Address) Phone() string { return a.phone }

// Line1 returns the first address line
func (a Address) Line1() string { return a.line1 }

// Line2 returns the optional second address line
func (a Address) Line2() string { return a.line2 }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state
func (a Address) State() string { return a.state }

// Pincode returns the postal index number
func (a Address) Pincode() string { return a.pincode }

// IsEmpty returns true if no field is set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Params returns the address fields as AddressParams
func (a Address) Params() AddressParams {
	return AddressParams{
		FullName: a.fullName,
		Phone:    a.phone,
		Line1:    a.line1,
		Line2:    a.line2,
		City:     a.city,
		State:    a.state,
		Pincode:  a.pincode,
	}
}

// String returns a single line rendering of the address
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	parts := []string{a.line1}
	if a.line2 != "" {
		parts = append(parts, a.line2)
	}
	parts = append(parts, a.city, a.state+" "+a.pincode)
	return strings.Join(parts, ", ")
}
