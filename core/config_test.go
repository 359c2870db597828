package core

import (
	"strings"
	"testing"
)

func validNotifyConfig() Config {
	cfg := DefaultConfig()
	cfg.Processor.SigningSecret = "whsec_test"
	cfg.Mail.APIToken = "re_test"
	cfg.Mail.From = "payments@example.com"
	cfg.Mail.NotifyAddress = "ops@example.com"
	return cfg
}

func validOrderConfig() Config {
	cfg := DefaultConfig()
	cfg.DispatchMode = DispatchModeOrder
	cfg.Processor.SigningSecret = "whsec_test"
	cfg.Commerce.StoreDomain = "shop.myshopify.com"
	cfg.Commerce.AccessToken = "shpat_test"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ServiceName != "payhook" {
		t.Fatalf("unexpected service name %q", cfg.ServiceName)
	}
	if cfg.DispatchMode != DispatchModeNotify {
		t.Fatalf("expected notify mode default, got %q", cfg.DispatchMode)
	}
	if cfg.Processor.WebhookProvider != "paystack" {
		t.Fatalf("expected paystack webhook provider default, got %q", cfg.Processor.WebhookProvider)
	}
}

func TestConfigValidate_NotifyMode(t *testing.T) {
	if err := validNotifyConfig().Validate(); err != nil {
		t.Fatalf("expected valid notify config: %v", err)
	}

	cfg := validNotifyConfig()
	cfg.Processor.SigningSecret = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "signing_secret") {
		t.Fatalf("expected signing secret error, got %v", err)
	}

	cfg = validNotifyConfig()
	cfg.Mail.APIToken = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "mail.api_token") {
		t.Fatalf("expected mail token error, got %v", err)
	}

	cfg = validNotifyConfig()
	cfg.Mail.NotifyAddress = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "notify_address") {
		t.Fatalf("expected notify address error, got %v", err)
	}
}

func TestConfigValidate_OrderMode(t *testing.T) {
	if err := validOrderConfig().Validate(); err != nil {
		t.Fatalf("expected valid order config: %v", err)
	}

	cfg := validOrderConfig()
	cfg.Commerce.StoreDomain = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "store_domain") {
		t.Fatalf("expected store domain error, got %v", err)
	}

	cfg = validOrderConfig()
	cfg.Commerce.AccessToken = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "access_token") {
		t.Fatalf("expected access token error, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownModeAndVerifyWithoutToken(t *testing.T) {
	cfg := validNotifyConfig()
	cfg.DispatchMode = "broadcast"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "dispatch_mode") {
		t.Fatalf("expected dispatch mode error, got %v", err)
	}

	cfg = validNotifyConfig()
	cfg.Processor.Verify = true
	cfg.Processor.APIToken = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "api_token") {
		t.Fatalf("expected processor token error, got %v", err)
	}
}
