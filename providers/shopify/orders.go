package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhook/core"
	"github.com/goliatone/go-payhook/transport"
)

const ProviderID = "shopify"

const (
	defaultAPIVersion    = "2024-07"
	defaultDomainSuffix  = ".myshopify.com"
	accessTokenHeader    = "X-Shopify-Access-Token"
	referenceAttribute   = "payment_reference"
	variantGID           = "gid://shopify/ProductVariant/"
	draftOrderCreateName = "draftOrderCreate"
)

const draftOrderCreateMutation = `mutation draftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder { id name }
    userErrors { field message }
  }
}`

const draftOrderCompleteMutation = `mutation draftOrderComplete($id: ID!) {
  draftOrderComplete(id: $id) {
    draftOrder { id }
    userErrors { field message }
  }
}`

type Config struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
	Transport   core.TransportAdapter
}

// OrderClient drives the commerce backend's Admin GraphQL API. Order
// placement is two sequential mutations: create a draft order carrying the
// payment reference, then complete it as paid. The second mutation never runs
// when the first fails.
type OrderClient struct {
	endpoint    string
	accessToken string
	transport   core.TransportAdapter
}

func NewOrderClient(cfg Config) (*OrderClient, error) {
	domain := normalizeStoreDomain(cfg.StoreDomain)
	if domain == "" {
		return nil, orderError(
			"shopify: store domain is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, orderError(
			"shopify: access token is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"store_domain": domain},
		)
	}
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = defaultAPIVersion
	}
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, version)

	adapter := cfg.Transport
	if adapter == nil {
		adapter = transport.NewGraphQLAdapter(endpoint, nil)
	}
	return &OrderClient{
		endpoint:    endpoint,
		accessToken: token,
		transport:   adapter,
	}, nil
}

func (c *OrderClient) CreateDraftOrder(ctx context.Context, in core.DraftOrderInput) (core.DraftOrder, error) {
	if c == nil || c.transport == nil {
		return core.DraftOrder{}, orderError(
			"shopify: order client is not configured",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	variantID := strings.TrimSpace(in.VariantID)
	if variantID == "" {
		return core.DraftOrder{}, orderError(
			"shopify: variant id is required to create a draft order",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"reference": in.Reference},
		)
	}
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	input := map[string]any{
		"lineItems": []map[string]any{
			{
				"variantId": normalizeVariantID(variantID),
				"quantity":  quantity,
			},
		},
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		input["email"] = email
	}
	if note := strings.TrimSpace(in.Note); note != "" {
		input["note"] = note
	}
	if reference := strings.TrimSpace(in.Reference); reference != "" {
		input["customAttributes"] = []map[string]any{
			{"key": referenceAttribute, "value": reference},
		}
	}

	payload, err := c.mutate(ctx, draftOrderCreateMutation, draftOrderCreateName, map[string]any{"input": input}, in.Reference)
	if err != nil {
		return core.DraftOrder{}, err
	}

	var result struct {
		DraftOrder struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"draftOrder"`
		UserErrors []userError `json:"userErrors"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return core.DraftOrder{}, orderWrapError(
			err,
			goerrors.CategoryExternal,
			"shopify: decode draft order create payload",
			http.StatusInternalServerError,
			map[string]any{"reference": in.Reference},
		)
	}
	if len(result.UserErrors) > 0 {
		return core.DraftOrder{}, userErrorsError("shopify: draft order create rejected", result.UserErrors, in.Reference)
	}
	if strings.TrimSpace(result.DraftOrder.ID) == "" {
		return core.DraftOrder{}, orderError(
			"shopify: draft order create returned no id",
			goerrors.CategoryExternal,
			http.StatusInternalServerError,
			map[string]any{"reference": in.Reference},
		)
	}
	return core.DraftOrder{
		ID:   result.DraftOrder.ID,
		Name: result.DraftOrder.Name,
	}, nil
}

func (c *OrderClient) CompleteDraftOrder(ctx context.Context, id string) error {
	if c == nil || c.transport == nil {
		return orderError(
			"shopify: order client is not configured",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return orderError(
			"shopify: draft order id is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}

	payload, err := c.mutate(ctx, draftOrderCompleteMutation, "draftOrderComplete", map[string]any{"id": id}, "")
	if err != nil {
		return err
	}

	var result struct {
		UserErrors []userError `json:"userErrors"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return orderWrapError(
			err,
			goerrors.CategoryExternal,
			"shopify: decode draft order complete payload",
			http.StatusInternalServerError,
			map[string]any{"draft_order_id": id},
		)
	}
	if len(result.UserErrors) > 0 {
		return userErrorsError("shopify: draft order complete rejected", result.UserErrors, id)
	}
	return nil
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// mutate posts one named mutation and returns the raw payload under
// data.<operation>.
func (c *OrderClient) mutate(
	ctx context.Context,
	mutation string,
	operation string,
	variables map[string]any,
	reference string,
) (json.RawMessage, error) {
	res, err := c.transport.Do(ctx, core.TransportRequest{
		URL: c.endpoint,
		Headers: map[string]string{
			accessTokenHeader: c.accessToken,
		},
		Metadata: map[string]any{
			"query":     mutation,
			"variables": variables,
		},
	})
	if err != nil {
		return nil, orderWrapError(
			err,
			goerrors.CategoryExternal,
			fmt.Sprintf("shopify: %s request failed", operation),
			http.StatusInternalServerError,
			map[string]any{"reference": reference},
		)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, orderError(
			fmt.Sprintf("shopify: %s returned status %d", operation, res.StatusCode),
			goerrors.CategoryExternal,
			http.StatusInternalServerError,
			map[string]any{"reference": reference, "status_code": res.StatusCode},
		)
	}

	var envelope struct {
		Data   map[string]json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return nil, orderWrapError(
			err,
			goerrors.CategoryExternal,
			fmt.Sprintf("shopify: decode %s response", operation),
			http.StatusInternalServerError,
			map[string]any{"reference": reference},
		)
	}
	if len(envelope.Errors) > 0 {
		return nil, orderError(
			fmt.Sprintf("shopify: %s failed: %s", operation, envelope.Errors[0].Message),
			goerrors.CategoryExternal,
			http.StatusInternalServerError,
			map[string]any{"reference": reference},
		)
	}
	payload, ok := envelope.Data[operation]
	if !ok {
		return nil, orderError(
			fmt.Sprintf("shopify: %s response carries no payload", operation),
			goerrors.CategoryExternal,
			http.StatusInternalServerError,
			map[string]any{"reference": reference},
		)
	}
	return payload, nil
}

func normalizeStoreDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimRight(domain, "/")
	if domain == "" {
		return ""
	}
	if !strings.Contains(domain, ".") {
		domain += defaultDomainSuffix
	}
	return domain
}

func normalizeVariantID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return variantGID + id
}

var _ core.OrderService = (*OrderClient)(nil)
