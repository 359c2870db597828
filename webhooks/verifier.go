package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/goliatone/go-payhook/core"
)

const (
	AlgorithmSHA256 = "sha256"
	AlgorithmSHA512 = "sha512"
)

type ProviderWebhookTemplate struct {
	ProviderID string
	Verifier   core.Verifier
}

// HeaderHMACVerifier authenticates a delivery by recomputing a keyed hash
// over the raw request body and comparing it in constant time against the
// value carried in a header. The hash is always taken over the bytes exactly
// as received; hashing a re-serialized copy of the parsed body would break on
// whitespace or key-order changes.
type HeaderHMACVerifier struct {
	Header    string
	Prefix    string
	Secret    string
	Encoding  string // hex | base64
	Algorithm string // sha256 | sha512
}

func (v HeaderHMACVerifier) Verify(_ context.Context, req core.InboundRequest) error {
	header := strings.TrimSpace(headerValue(req.Headers, v.Header))
	if header == "" {
		return fmt.Errorf("webhooks: %s signature header is required", strings.TrimSpace(v.Header))
	}
	secret := strings.TrimSpace(v.Secret)
	if secret == "" {
		return fmt.Errorf("webhooks: signature secret is required")
	}
	signature := strings.TrimPrefix(header, strings.TrimSpace(v.Prefix))
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return fmt.Errorf("webhooks: signature value is required")
	}

	digest, err := resolveDigest(v.Algorithm)
	if err != nil {
		return err
	}
	mac := hmac.New(digest, []byte(secret))
	_, _ = mac.Write(req.Body)
	expected := mac.Sum(nil)

	switch strings.ToLower(strings.TrimSpace(v.Encoding)) {
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(signature)
		if err != nil {
			return fmt.Errorf("webhooks: decode base64 signature: %w", err)
		}
		if subtle.ConstantTimeCompare(decoded, expected) != 1 {
			return fmt.Errorf("webhooks: signature verification failed")
		}
	default:
		decoded, err := hex.DecodeString(signature)
		if err != nil {
			return fmt.Errorf("webhooks: decode hex signature: %w", err)
		}
		if subtle.ConstantTimeCompare(decoded, expected) != 1 {
			return fmt.Errorf("webhooks: signature verification failed")
		}
	}
	return nil
}

// TemplateFor resolves the webhook template registered under a provider id.
// An empty provider selects the paystack scheme.
func TemplateFor(provider string, secret string) (ProviderWebhookTemplate, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "paystack":
		return NewPaystackWebhookTemplate(secret), nil
	case "shopify":
		return NewShopifyWebhookTemplate(secret), nil
	default:
		return ProviderWebhookTemplate{}, fmt.Errorf("webhooks: no template registered for provider %q", provider)
	}
}

func NewPaystackWebhookTemplate(secret string) ProviderWebhookTemplate {
	return ProviderWebhookTemplate{
		ProviderID: "paystack",
		Verifier: HeaderHMACVerifier{
			Header:    "X-Paystack-Signature",
			Secret:    strings.TrimSpace(secret),
			Encoding:  "hex",
			Algorithm: AlgorithmSHA512,
		},
	}
}

func NewShopifyWebhookTemplate(secret string) ProviderWebhookTemplate {
	return ProviderWebhookTemplate{
		ProviderID: "shopify",
		Verifier: HeaderHMACVerifier{
			Header:    "X-Shopify-Hmac-Sha256",
			Secret:    strings.TrimSpace(secret),
			Encoding:  "base64",
			Algorithm: AlgorithmSHA256,
		},
	}
}

func resolveDigest(algorithm string) (func() hash.Hash, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmSHA256:
		return sha256.New, nil
	case AlgorithmSHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("webhooks: unsupported hmac algorithm %q", algorithm)
	}
}

func headerValue(headers map[string]string, key string) string {
	if len(headers) == 0 {
		return ""
	}
	for existing, value := range headers {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(key)) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
