package dto

import (
	"errors"
	"net/http"

	"github.com/pantryfresh/backend/internal/domain/shared"
)

// Error code constants returned in the error envelope.
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound = "ERR_NOT_FOUND"
	ErrCodeConflict = "ERR_CONFLICT"

	ErrCodeEmptyCart         = "ERR_EMPTY_CART"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	ErrCodeNotCancellable    = "ERR_ORDER_NOT_CANCELLABLE"

	ErrCodeIdempotencyInFlight = "ERR_IDEMPOTENCY_IN_FLIGHT"
	ErrCodeRateLimited         = "ERR_RATE_LIMITED"
)

// codeNotCancellable is the domain code for cancelling an order past PROCESSING
const codeNotCancellable = "ORDER_NOT_CANCELLABLE"

type kindMapping struct {
	code   string
	status int
}

var kindMappings = map[shared.ErrorKind]kindMapping{
	shared.KindValidation:        {ErrCodeValidation, http.StatusBadRequest},
	shared.KindEmptyCart:         {ErrCodeEmptyCart, http.StatusBadRequest},
	shared.KindInsufficientStock: {ErrCodeInsufficientStock, http.StatusBadRequest},
	shared.KindNotFound:          {ErrCodeNotFound, http.StatusNotFound},
	shared.KindForbidden:         {ErrCodeForbidden, http.StatusForbidden},
	shared.KindUnauthorized:      {ErrCodeUnauthorized, http.StatusUnauthorized},
	shared.KindInvalidTransition: {ErrCodeInvalidTransition, http.StatusConflict},
	shared.KindConflict:          {ErrCodeConflict, http.StatusConflict},
	shared.KindInternal:          {ErrCodeInternal, http.StatusInternalServerError},
}

// internalMessage is the only message a client sees for an unexpected error
const internalMessage = "An unexpected error occurred"

// FromError converts err into an HTTP status and error body. Anything that is
// not a domain error becomes a 500 with a generic message.
func FromError(err error) (int, *ErrorInfo) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, &ErrorInfo{Code: ErrCodeInternal, Message: internalMessage}
	}

	m, ok := kindMappings[de.Kind]
	if !ok {
		return http.StatusInternalServerError, &ErrorInfo{Code: ErrCodeInternal, Message: internalMessage}
	}
	if de.Kind == shared.KindInvalidTransition && de.Code == codeNotCancellable {
		m = kindMapping{ErrCodeNotCancellable, http.StatusBadRequest}
	}
	if de.Kind == shared.KindInternal {
		return m.status, &ErrorInfo{Code: m.code, Message: internalMessage}
	}

	info := &ErrorInfo{Code: m.code, Message: de.Message}
	if len(de.Details) > 0 || de.Code != string(de.Kind) {
		info.Details = make(map[string]any, len(de.Details)+1)
		for k, v := range de.Details {
			info.Details[k] = v
		}
		if de.Code != string(de.Kind) {
			info.Details["reason"] = de.Code
		}
	}
	return m.status, info
}

// StatusForKind returns the HTTP status used for kind
func StatusForKind(kind shared.ErrorKind) int {
	if m, ok := kindMappings[kind]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}
