// Package dispatch contains the downstream action strategies selected by
// deployment configuration: mail notification or commerce order creation.
package dispatch

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-payhook/core"
)

// Well-known custom metadata field names attached to a charge. Lookups go
// through core.Metadata.Get and degrade to the documented defaults.
const (
	FieldProductTitle = "product_title"
	FieldVariantID    = "variant_id"
	FieldCustomerName = "customer_name"
	FieldPhone        = "phone"
	FieldShippingZone = "shipping_zone"
	FieldAddress      = "address"
	FieldShippingFee  = "shipping_fee"
)

const (
	ChannelOperator = "operator"
	ChannelCustomer = "customer"
)

func logInfo(ctx context.Context, logger core.Logger, message string, fields map[string]any) {
	logWithLevel(ctx, logger, "info", message, fields)
}

func logError(ctx context.Context, logger core.Logger, message string, fields map[string]any) {
	logWithLevel(ctx, logger, "error", message, fields)
}

func logWithLevel(ctx context.Context, logger core.Logger, level string, message string, fields map[string]any) {
	if logger == nil {
		return
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
