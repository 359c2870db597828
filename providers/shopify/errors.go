package shopify

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
)

func orderError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(orderTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func orderWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return orderError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(orderTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func userErrorsError(message string, errs []userError, reference string) error {
	details := make([]string, 0, len(errs))
	for _, ue := range errs {
		detail := strings.TrimSpace(ue.Message)
		if len(ue.Field) > 0 {
			detail = strings.Join(ue.Field, ".") + ": " + detail
		}
		details = append(details, detail)
	}
	return orderError(
		fmt.Sprintf("%s: %s", message, strings.Join(details, "; ")),
		goerrors.CategoryOperation,
		http.StatusInternalServerError,
		map[string]any{"reference": reference},
	)
}

func orderTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput:
		return core.RelayErrorBadInput
	case goerrors.CategoryExternal:
		return core.RelayErrorExternalFailure
	case goerrors.CategoryOperation:
		return core.RelayErrorOperationFailed
	default:
		return core.RelayErrorInternal
	}
}
