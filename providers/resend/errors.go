package resend

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
)

func mailError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(mailTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func mailWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return mailError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(mailTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func mailTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput:
		return core.RelayErrorBadInput
	case goerrors.CategoryExternal:
		return core.RelayErrorExternalFailure
	default:
		return core.RelayErrorInternal
	}
}
