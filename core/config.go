package core

import (
	"fmt"
	"strings"
)

const (
	DispatchModeNotify = "notify"
	DispatchModeOrder  = "order"
)

type ProcessorConfig struct {
	// WebhookProvider selects the inbound signature scheme by provider id.
	WebhookProvider string `koanf:"webhook_provider" mapstructure:"webhook_provider"`
	APIURL          string `koanf:"api_url" mapstructure:"api_url"`
	APIToken        string `koanf:"api_token" mapstructure:"api_token"`
	SigningSecret   string `koanf:"signing_secret" mapstructure:"signing_secret"`
	Verify          bool   `koanf:"verify" mapstructure:"verify"`
}

type MailConfig struct {
	APIURL        string `koanf:"api_url" mapstructure:"api_url"`
	APIToken      string `koanf:"api_token" mapstructure:"api_token"`
	From          string `koanf:"from" mapstructure:"from"`
	NotifyAddress string `koanf:"notify_address" mapstructure:"notify_address"`
	CustomerCopy  bool   `koanf:"customer_copy" mapstructure:"customer_copy"`
}

type CommerceConfig struct {
	StoreDomain string `koanf:"store_domain" mapstructure:"store_domain"`
	AccessToken string `koanf:"access_token" mapstructure:"access_token"`
	APIVersion  string `koanf:"api_version" mapstructure:"api_version"`
}

type Config struct {
	ServiceName  string          `koanf:"service_name" mapstructure:"service_name"`
	DispatchMode string          `koanf:"dispatch_mode" mapstructure:"dispatch_mode"`
	Processor    ProcessorConfig `koanf:"processor" mapstructure:"processor"`
	Mail         MailConfig      `koanf:"mail" mapstructure:"mail"`
	Commerce     CommerceConfig  `koanf:"commerce" mapstructure:"commerce"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:  "payhook",
		DispatchMode: DispatchModeNotify,
		Processor: ProcessorConfig{
			WebhookProvider: "paystack",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	switch strings.TrimSpace(c.DispatchMode) {
	case DispatchModeNotify, DispatchModeOrder:
	default:
		return fmt.Errorf("core: dispatch_mode %q is not supported", c.DispatchMode)
	}
	if strings.TrimSpace(c.Processor.SigningSecret) == "" {
		return fmt.Errorf("core: processor.signing_secret is required")
	}
	if c.Processor.Verify && strings.TrimSpace(c.Processor.APIToken) == "" {
		return fmt.Errorf("core: processor.api_token is required when processor.verify is set")
	}
	if strings.TrimSpace(c.DispatchMode) == DispatchModeNotify {
		if strings.TrimSpace(c.Mail.APIToken) == "" {
			return fmt.Errorf("core: mail.api_token is required in notify mode")
		}
		if strings.TrimSpace(c.Mail.From) == "" {
			return fmt.Errorf("core: mail.from is required in notify mode")
		}
		if strings.TrimSpace(c.Mail.NotifyAddress) == "" {
			return fmt.Errorf("core: mail.notify_address is required in notify mode")
		}
	}
	if strings.TrimSpace(c.DispatchMode) == DispatchModeOrder {
		if strings.TrimSpace(c.Commerce.StoreDomain) == "" {
			return fmt.Errorf("core: commerce.store_domain is required in order mode")
		}
		if strings.TrimSpace(c.Commerce.AccessToken) == "" {
			return fmt.Errorf("core: commerce.access_token is required in order mode")
		}
	}
	return nil
}
