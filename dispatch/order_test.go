package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
)

type stubOrders struct {
	created     []core.DraftOrderInput
	completed   []string
	draft       core.DraftOrder
	createErr   error
	completeErr error
}

func (s *stubOrders) CreateDraftOrder(_ context.Context, in core.DraftOrderInput) (core.DraftOrder, error) {
	s.created = append(s.created, in)
	if s.createErr != nil {
		return core.DraftOrder{}, s.createErr
	}
	return s.draft, nil
}

func (s *stubOrders) CompleteDraftOrder(_ context.Context, id string) error {
	s.completed = append(s.completed, id)
	return s.completeErr
}

func TestOrderAction_CreatesAndCompletesDraftOrder(t *testing.T) {
	orders := &stubOrders{draft: core.DraftOrder{ID: "gid://shopify/DraftOrder/1", Name: "#D1"}}
	action := NewOrderAction(orders)

	result, err := action.Execute(context.Background(), chargeEvent())
	if err != nil {
		t.Fatalf("execute order: %v", err)
	}

	if len(orders.created) != 1 {
		t.Fatalf("expected one create, got %d", len(orders.created))
	}
	created := orders.created[0]
	if created.VariantID != "987" {
		t.Fatalf("unexpected variant %q", created.VariantID)
	}
	if created.Email != "buyer@example.com" {
		t.Fatalf("unexpected email %q", created.Email)
	}
	if created.Note != "Paystack payment ref_123" {
		t.Fatalf("unexpected note %q", created.Note)
	}
	if created.Reference != "ref_123" {
		t.Fatalf("unexpected reference %q", created.Reference)
	}

	if len(orders.completed) != 1 || orders.completed[0] != "gid://shopify/DraftOrder/1" {
		t.Fatalf("expected completion of created draft, got %#v", orders.completed)
	}

	if result.Metadata["draft_order_id"] != "gid://shopify/DraftOrder/1" {
		t.Fatalf("unexpected result metadata %#v", result.Metadata)
	}
	if result.Metadata["completed"] != true {
		t.Fatalf("expected completed metadata")
	}
}

func TestOrderAction_MissingVariantMakesNoAPICall(t *testing.T) {
	orders := &stubOrders{}
	action := NewOrderAction(orders)

	event := chargeEvent()
	event.Data.Metadata = core.Metadata{}

	_, err := action.Execute(context.Background(), event)
	if err == nil {
		t.Fatalf("expected precondition failure")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		t.Fatalf("expected go-errors type, got %T", err)
	}
	if richErr.TextCode != core.RelayErrorPreconditionFailed {
		t.Fatalf("expected precondition text code, got %q", richErr.TextCode)
	}
	if len(orders.created) != 0 || len(orders.completed) != 0 {
		t.Fatalf("expected zero api calls, got %d create %d complete", len(orders.created), len(orders.completed))
	}
}

func TestOrderAction_CreateFailureSkipsCompletion(t *testing.T) {
	orders := &stubOrders{createErr: errors.New("variant does not exist")}
	action := NewOrderAction(orders)

	_, err := action.Execute(context.Background(), chargeEvent())
	if err == nil || !strings.Contains(err.Error(), "draft order create failed") {
		t.Fatalf("expected wrapped create failure, got %v", err)
	}
	if len(orders.completed) != 0 {
		t.Fatalf("completion must not run after a failed create")
	}
}

func TestOrderAction_CompleteFailureIsSurfaced(t *testing.T) {
	orders := &stubOrders{
		draft:       core.DraftOrder{ID: "gid://shopify/DraftOrder/1"},
		completeErr: errors.New("already completed"),
	}
	action := NewOrderAction(orders)

	_, err := action.Execute(context.Background(), chargeEvent())
	if err == nil || !strings.Contains(err.Error(), "draft order complete failed") {
		t.Fatalf("expected wrapped complete failure, got %v", err)
	}
}

func TestOrderAction_RequiresOrderService(t *testing.T) {
	action := NewOrderAction(nil)
	if _, err := action.Execute(context.Background(), chargeEvent()); err == nil {
		t.Fatalf("expected order service error")
	}
}
