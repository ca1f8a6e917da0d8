package dto

import (
	"net/http"

	"github.com/foodgram/backend/internal/domain/shared"
)

// API error codes, ERR_<CATEGORY>[_<DETAIL>]
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeTokenRevoked covers tokens revoked by logout or a password change
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeInvalidSelfReference is a user subscribing to themselves
	ErrCodeInvalidSelfReference = "ERR_INVALID_SELF_REFERENCE"
	// ErrCodeStorageConflict is a transaction aborted by a serialization
	// failure or deadlock; the client may retry
	ErrCodeStorageConflict = "ERR_STORAGE_CONFLICT"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus is the response status of each API error code.
// Duplicates are 400, not 409: clients treat them as rejected input.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:              http.StatusInternalServerError,
	ErrCodeInternal:             http.StatusInternalServerError,
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeBadRequest:           http.StatusBadRequest,
	ErrCodeInvalidJSON:          http.StatusBadRequest,
	ErrCodeRequestTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeUnauthorized:         http.StatusUnauthorized,
	ErrCodeForbidden:            http.StatusForbidden,
	ErrCodeTokenExpired:         http.StatusUnauthorized,
	ErrCodeTokenInvalid:         http.StatusUnauthorized,
	ErrCodeTokenRevoked:         http.StatusUnauthorized,
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeAlreadyExists:        http.StatusBadRequest,
	ErrCodeInvalidSelfReference: http.StatusBadRequest,
	ErrCodeStorageConflict:      http.StatusConflict,
	ErrCodeRateLimited:          http.StatusTooManyRequests,
}

// GetHTTPStatus returns 500 for codes it does not know
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping translates shared.DomainError codes to API codes
var DomainErrorCodeMapping = map[string]string{
	shared.CodeValidation:           ErrCodeValidation,
	shared.CodeAlreadyExists:        ErrCodeAlreadyExists,
	shared.CodeInvalidSelfReference: ErrCodeInvalidSelfReference,
	shared.CodeNotFound:             ErrCodeNotFound,
	shared.CodeUnauthorized:         ErrCodeUnauthorized,
	shared.CodeForbidden:            ErrCodeForbidden,
	shared.CodeStorageConflict:      ErrCodeStorageConflict,
	"BAD_REQUEST":                   ErrCodeBadRequest,
	"INTERNAL_ERROR":                ErrCodeInternal,
}

// NormalizeErrorCode maps a domain code to its API code. API codes and
// unknown codes come back unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
