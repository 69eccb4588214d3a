package dto

import (
	"net/http"
	"strings"
)

// API error codes. Every code the API emits has the ERR_ prefix.
const (
	ErrCodeInternal    = "ERR_INTERNAL"
	ErrCodeUnavailable = "ERR_UNAVAILABLE" // backing service not configured or down

	ErrCodeBadRequest       = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON      = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge  = "ERR_REQUEST_TOO_LARGE"
	ErrCodeValidation       = "ERR_VALIDATION"
	ErrCodePasswordMismatch = "ERR_PASSWORD_MISMATCH"

	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountInactive    = "ERR_ACCOUNT_INACTIVE"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"

	// Checkout and catalog rule violations
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeSizeUnavailable   = "ERR_SIZE_UNAVAILABLE"
	ErrCodeCartEmpty         = "ERR_CART_EMPTY"
	ErrCodeCouponInvalid     = "ERR_COUPON_INVALID"
	ErrCodeCouponMinAmount   = "ERR_COUPON_MIN_AMOUNT"
	ErrCodeAddressRequired   = "ERR_ADDRESS_REQUIRED"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

var codeStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodePasswordMismatch: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountInactive:    http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeSizeUnavailable:   http.StatusUnprocessableEntity,
	ErrCodeCartEmpty:         http.StatusUnprocessableEntity,
	ErrCodeCouponInvalid:     http.StatusUnprocessableEntity,
	ErrCodeCouponMinAmount:   http.StatusUnprocessableEntity,
	ErrCodeAddressRequired:   http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// domainAliases maps codes raised by the domain layer onto API codes
var domainAliases = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"USERNAME_EXISTS":         ErrCodeAlreadyExists,
	"EMAIL_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"INVALID_STATUS":          ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"INVALID_CREDENTIALS":     ErrCodeInvalidCredentials,
	"ACCOUNT_INACTIVE":        ErrCodeAccountInactive,
	"TOKEN_EXPIRED":           ErrCodeTokenExpired,
	"TOKEN_INVALID":           ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":       ErrCodeTokenExpired,
	"PASSWORD_MISMATCH":       ErrCodePasswordMismatch,
	"INSUFFICIENT_STOCK":      ErrCodeInsufficientStock,
	"SIZE_UNAVAILABLE":        ErrCodeSizeUnavailable,
	"CART_EMPTY":              ErrCodeCartEmpty,
	"NO_ITEMS":                ErrCodeCartEmpty,
	"COUPON_INVALID":          ErrCodeCouponInvalid,
	"COUPON_EXHAUSTED":        ErrCodeCouponInvalid,
	"COUPON_MIN_AMOUNT":       ErrCodeCouponMinAmount,
	"ADDRESS_REQUIRED":        ErrCodeAddressRequired,
	"MISSING_CUSTOMER_FIELDS": ErrCodeAddressRequired,
	"STORAGE_UNAVAILABLE":     ErrCodeUnavailable,
	"VALIDATION_ERROR":        ErrCodeValidation,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"PASSWORD_HASH_ERROR":     ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its API form. Codes
// without an alias fall back by shape: *_NOT_FOUND is a not-found error and
// INVALID_* an input error. Anything else is returned unchanged.
func NormalizeErrorCode(code string) string {
	if alias, ok := domainAliases[code]; ok {
		return alias
	}
	switch {
	case strings.HasPrefix(code, "ERR_"):
		return code
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return ErrCodeNotFound
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeInvalidInput
	}
	return code
}

// StatusFor returns the HTTP status of an API code. ok is false for codes
// the table does not know.
func StatusFor(code string) (status int, ok bool) {
	status, ok = codeStatus[code]
	return status, ok
}
