package shopify

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-payhook/core"
)

type stubTransport struct {
	requests  []core.TransportRequest
	responses []core.TransportResponse
	err       error
}

func (s *stubTransport) Kind() string { return "stub" }

func (s *stubTransport) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return core.TransportResponse{}, s.err
	}
	index := len(s.requests) - 1
	if index < len(s.responses) {
		return s.responses[index], nil
	}
	return core.TransportResponse{StatusCode: 200, Body: []byte(`{"data":{}}`)}, nil
}

func graphQLResponse(body string) core.TransportResponse {
	return core.TransportResponse{StatusCode: 200, Body: []byte(body)}
}

func TestNewOrderClient_BuildsEndpoint(t *testing.T) {
	client, err := NewOrderClient(Config{
		StoreDomain: "acme",
		AccessToken: "shpat_test",
		Transport:   &stubTransport{},
	})
	if err != nil {
		t.Fatalf("new order client: %v", err)
	}
	want := "https://acme.myshopify.com/admin/api/2024-07/graphql.json"
	if client.endpoint != want {
		t.Fatalf("unexpected endpoint %q", client.endpoint)
	}
}

func TestNewOrderClient_NormalizesDomainAndVersion(t *testing.T) {
	client, err := NewOrderClient(Config{
		StoreDomain: "https://acme.myshopify.com/",
		AccessToken: "shpat_test",
		APIVersion:  "2025-01",
		Transport:   &stubTransport{},
	})
	if err != nil {
		t.Fatalf("new order client: %v", err)
	}
	want := "https://acme.myshopify.com/admin/api/2025-01/graphql.json"
	if client.endpoint != want {
		t.Fatalf("unexpected endpoint %q", client.endpoint)
	}
}

func TestNewOrderClient_RequiresDomainAndToken(t *testing.T) {
	if _, err := NewOrderClient(Config{AccessToken: "shpat_test"}); err == nil {
		t.Fatalf("expected store domain error")
	}
	if _, err := NewOrderClient(Config{StoreDomain: "acme"}); err == nil {
		t.Fatalf("expected access token error")
	}
}

func TestCreateDraftOrder_SendsMutation(t *testing.T) {
	transport := &stubTransport{responses: []core.TransportResponse{
		graphQLResponse(`{"data":{"draftOrderCreate":{"draftOrder":{"id":"gid://shopify/DraftOrder/1","name":"#D1"},"userErrors":[]}}}`),
	}}
	client, _ := NewOrderClient(Config{StoreDomain: "acme", AccessToken: "shpat_test", Transport: transport})

	draft, err := client.CreateDraftOrder(context.Background(), core.DraftOrderInput{
		Email:     "buyer@example.com",
		Note:      "Paystack payment ref_123",
		VariantID: "987",
		Quantity:  1,
		Reference: "ref_123",
	})
	if err != nil {
		t.Fatalf("create draft order: %v", err)
	}
	if draft.ID != "gid://shopify/DraftOrder/1" || draft.Name != "#D1" {
		t.Fatalf("unexpected draft order %#v", draft)
	}

	if len(transport.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(transport.requests))
	}
	sent := transport.requests[0]
	if sent.Headers[accessTokenHeader] != "shpat_test" {
		t.Fatalf("missing access token header")
	}
	query, _ := sent.Metadata["query"].(string)
	if !strings.Contains(query, "draftOrderCreate") {
		t.Fatalf("unexpected query %q", query)
	}
	variables, _ := sent.Metadata["variables"].(map[string]any)
	input, _ := variables["input"].(map[string]any)
	if input["email"] != "buyer@example.com" {
		t.Fatalf("unexpected input %#v", input)
	}
	lineItems, _ := input["lineItems"].([]map[string]any)
	if len(lineItems) != 1 || lineItems[0]["variantId"] != "gid://shopify/ProductVariant/987" {
		t.Fatalf("unexpected line items %#v", lineItems)
	}
	attributes, _ := input["customAttributes"].([]map[string]any)
	if len(attributes) != 1 || attributes[0]["value"] != "ref_123" {
		t.Fatalf("expected payment reference attribute, got %#v", attributes)
	}
}

func TestCreateDraftOrder_RequiresVariant(t *testing.T) {
	transport := &stubTransport{}
	client, _ := NewOrderClient(Config{StoreDomain: "acme", AccessToken: "shpat_test", Transport: transport})

	if _, err := client.CreateDraftOrder(context.Background(), core.DraftOrderInput{Email: "b@example.com"}); err == nil {
		t.Fatalf("expected variant error")
	}
	if len(transport.requests) != 0 {
		t.Fatalf("expected no api call without variant")
	}
}

func TestCreateDraftOrder_SurfacesUserErrors(t *testing.T) {
	transport := &stubTransport{responses: []core.TransportResponse{
		graphQLResponse(`{"data":{"draftOrderCreate":{"draftOrder":null,"userErrors":[{"field":["input","lineItems"],"message":"Variant does not exist"}]}}}`),
	}}
	client, _ := NewOrderClient(Config{StoreDomain: "acme", AccessToken: "shpat_test", Transport: transport})

	_, err := client.CreateDraftOrder(context.Background(), core.DraftOrderInput{VariantID: "987", Reference: "ref_1"})
	if err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Fatalf("expected user errors rejection, got %v", err)
	}
}

func TestCreateDraftOrder_SurfacesTopLevelErrors(t *testing.T) {
	transport := &stubTransport{responses: []core.TransportResponse{
		graphQLResponse(`{"errors":[{"message":"Throttled"}]}`),
	}}
	client, _ := NewOrderClient(Config{StoreDomain: "acme", AccessToken: "shpat_test", Transport: transport})

	_, err := client.CreateDraftOrder(context.Background(), core.DraftOrderInput{VariantID: "987"})
	if err == nil || !strings.Contains(err.Error(), "Throttled") {
		t.Fatalf("expected top-level graphql error, got %v", err)
	}
}

func TestCompleteDraftOrder(t *testing.T) {
	transport := &stubTransport{responses: []core.TransportResponse{
		graphQLResponse(`{"data":{"draftOrderComplete":{"draftOrder":{"id":"gid://shopify/DraftOrder/1"},"userErrors":[]}}}`),
	}}
	client, _ := NewOrderClient(Config{StoreDomain: "acme", AccessToken: "shpat_test", Transport: transport})

	if err := client.CompleteDraftOrder(context.Background(), "gid://shopify/DraftOrder/1"); err != nil {
		t.Fatalf("complete draft order: %v", err)
	}
	variables, _ := transport.requests[0].Metadata["variables"].(map[string]any)
	if variables["id"] != "gid://shopify/DraftOrder/1" {
		t.Fatalf("unexpected variables %#v", variables)
	}

	if err := client.CompleteDraftOrder(context.Background(), ""); err == nil {
		t.Fatalf("expected id error")
	}
}

func TestCompleteDraftOrder_SurfacesUserErrors(t *testing.T) {
	transport := &stubTransport{responses: []core.TransportResponse{
		graphQLResponse(`{"data":{"draftOrderComplete":{"draftOrder":null,"userErrors":[{"field":["id"],"message":"Draft order already completed"}]}}}`),
	}}
	client, _ := NewOrderClient(Config{StoreDomain: "acme", AccessToken: "shpat_test", Transport: transport})

	err := client.CompleteDraftOrder(context.Background(), "gid://shopify/DraftOrder/1")
	if err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Fatalf("expected user errors rejection, got %v", err)
	}
}

func TestNormalizeVariantID(t *testing.T) {
	if got := normalizeVariantID("987"); got != "gid://shopify/ProductVariant/987" {
		t.Fatalf("unexpected gid %q", got)
	}
	if got := normalizeVariantID("gid://shopify/ProductVariant/987"); got != "gid://shopify/ProductVariant/987" {
		t.Fatalf("expected gid passthrough, got %q", got)
	}
}
