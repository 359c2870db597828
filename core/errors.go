package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	RelayErrorBadInput           = "RELAY_BAD_INPUT"
	RelayErrorMethodNotAllowed   = "RELAY_METHOD_NOT_ALLOWED"
	RelayErrorUnauthorized       = "RELAY_UNAUTHORIZED"
	RelayErrorVerificationFailed = "RELAY_VERIFICATION_FAILED"
	RelayErrorPreconditionFailed = "RELAY_PRECONDITION_FAILED"
	RelayErrorExternalFailure    = "RELAY_EXTERNAL_FAILURE"
	RelayErrorOperationFailed    = "RELAY_OPERATION_FAILED"
	RelayErrorInternal           = "RELAY_INTERNAL_ERROR"
)

// RelayErrorMapper normalizes any error into the relay error envelope so the
// HTTP surface can derive a status code and text code from it.
func RelayErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return EnsureRelayErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "signature"):
		return newRelayError(err.Error(), goerrors.CategoryAuth, RelayErrorUnauthorized)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "decode"):
		return newRelayError(err.Error(), goerrors.CategoryBadInput, RelayErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return EnsureRelayErrorEnvelope(mapped)
}

func newRelayError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return EnsureRelayErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func EnsureRelayErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = RelayHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = DefaultRelayTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func DefaultRelayTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput:
		return RelayErrorBadInput
	case goerrors.CategoryValidation:
		return RelayErrorVerificationFailed
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return RelayErrorUnauthorized
	case goerrors.CategoryExternal:
		return RelayErrorExternalFailure
	case goerrors.CategoryOperation:
		return RelayErrorOperationFailed
	default:
		return RelayErrorInternal
	}
}

func RelayHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
