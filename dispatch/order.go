package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
)

// OrderAction turns a verified charge into a fulfillment order: it creates a
// draft order carrying the payment reference, then completes it as paid. A
// missing variant id is a hard precondition failure; no order API call is
// made at all in that case.
type OrderAction struct {
	Orders   core.OrderService
	Quantity int
	Logger   core.Logger
}

func NewOrderAction(orders core.OrderService) *OrderAction {
	return &OrderAction{Orders: orders}
}

func (a *OrderAction) Name() string {
	return core.DispatchModeOrder
}

func (a *OrderAction) Execute(ctx context.Context, event core.PaymentEvent) (core.ActionResult, error) {
	if a == nil || a.Orders == nil {
		return core.ActionResult{}, actionError(
			"dispatch: order action requires an order service",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			core.RelayErrorInternal,
			nil,
		)
	}

	reference := event.Data.Reference
	variantID := event.Data.Metadata.Get(FieldVariantID, "")
	if strings.TrimSpace(variantID) == "" {
		return core.ActionResult{}, actionError(
			"dispatch: variant id metadata field is required to create an order",
			goerrors.CategoryOperation,
			http.StatusInternalServerError,
			core.RelayErrorPreconditionFailed,
			map[string]any{"reference": reference, "field": FieldVariantID},
		)
	}

	draft, err := a.Orders.CreateDraftOrder(ctx, core.DraftOrderInput{
		Email:     event.Data.Customer.Email,
		Note:      fmt.Sprintf("Paystack payment %s", reference),
		VariantID: variantID,
		Quantity:  a.Quantity,
		Reference: reference,
	})
	if err != nil {
		logError(ctx, a.Logger, "draft order create failed", map[string]any{
			"reference": reference,
			"error":     err.Error(),
		})
		return core.ActionResult{}, actionWrapError(
			err,
			goerrors.CategoryOperation,
			"dispatch: draft order create failed",
			http.StatusInternalServerError,
			core.RelayErrorOperationFailed,
			map[string]any{"reference": reference},
		)
	}

	if err := a.Orders.CompleteDraftOrder(ctx, draft.ID); err != nil {
		logError(ctx, a.Logger, "draft order complete failed", map[string]any{
			"reference":      reference,
			"draft_order_id": draft.ID,
			"error":          err.Error(),
		})
		return core.ActionResult{}, actionWrapError(
			err,
			goerrors.CategoryOperation,
			"dispatch: draft order complete failed",
			http.StatusInternalServerError,
			core.RelayErrorOperationFailed,
			map[string]any{"reference": reference, "draft_order_id": draft.ID},
		)
	}

	logInfo(ctx, a.Logger, "order created", map[string]any{
		"reference":      reference,
		"draft_order_id": draft.ID,
	})
	return core.ActionResult{
		Action: a.Name(),
		Metadata: map[string]any{
			"reference":        reference,
			"draft_order_id":   draft.ID,
			"draft_order_name": draft.Name,
			"completed":        true,
		},
	}, nil
}

var _ core.Action = (*OrderAction)(nil)
