package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so outer layers can react to it
// without inspecting messages.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindEmptyCart         ErrorKind = "EMPTY_CART"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindUnauthorized      ErrorKind = "UNAUTHORIZED"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindConflict          ErrorKind = "CONFLICT"
	KindInternal          ErrorKind = "INTERNAL"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind      `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target matches e. A target whose code equals its kind
// is a kind-level sentinel and matches every error of that kind.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Code == string(t.Kind) && t.Kind == e.Kind
}

// WithDetail returns a copy of the error carrying an extra detail entry
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with the given code
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewNotFoundError creates a not found error for the named resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(KindNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource))
}

// NewConflictError creates a conflict error with the given code
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// NewInsufficientStockError reports that a product cannot cover the requested quantity
func NewInsufficientStockError(productID, productName string, available, requested int) *DomainError {
	return &DomainError{
		Kind:    KindInsufficientStock,
		Code:    "INSUFFICIENT_STOCK",
		Message: fmt.Sprintf("Insufficient stock for %s: available %d, requested %d", productName, available, requested),
		Details: map[string]any{
			"product_id":   productID,
			"product_name": productName,
			"available":    available,
			"requested":    requested,
		},
	}
}

// NewInvalidTransitionError reports a rejected state change
func NewInvalidTransitionError(code, current, requested string) *DomainError {
	return &DomainError{
		Kind:    KindInvalidTransition,
		Code:    code,
		Message: fmt.Sprintf("Cannot change status from %s to %s", current, requested),
		Details: map[string]any{
			"current_status":   current,
			"requested_status": requested,
		},
	}
}

// KindOf returns the kind of err, or KindInternal when err is not a domain error
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a domain error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError(KindNotFound, string(KindNotFound), "Resource not found")
	ErrInvalidInput      = NewDomainError(KindValidation, string(KindValidation), "Invalid input provided")
	ErrEmptyCart         = NewDomainError(KindEmptyCart, string(KindEmptyCart), "Cart is empty")
	ErrInsufficientStock = NewDomainError(KindInsufficientStock, string(KindInsufficientStock), "Insufficient stock available")
	ErrInvalidTransition = NewDomainError(KindInvalidTransition, string(KindInvalidTransition), "Operation not allowed in current state")
	ErrConflict          = NewDomainError(KindConflict, string(KindConflict), "Resource was modified by another process")
	ErrUnauthorized      = NewDomainError(KindUnauthorized, string(KindUnauthorized), "Not authorized to perform this action")
	ErrForbidden         = NewDomainError(KindForbidden, string(KindForbidden), "Access to this resource is forbidden")
)
