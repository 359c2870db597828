package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

func NewStaticRawConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	// Validation happens once the runtime layer has been merged in; a loaded
	// layer is allowed to be partial.
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.ServiceName) != "" {
		layer["service_name"] = cfg.ServiceName
	}
	if includeZero || strings.TrimSpace(cfg.DispatchMode) != "" {
		layer["dispatch_mode"] = cfg.DispatchMode
	}

	processor := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.Processor.WebhookProvider) != "" {
		processor["webhook_provider"] = cfg.Processor.WebhookProvider
	}
	if includeZero || strings.TrimSpace(cfg.Processor.APIURL) != "" {
		processor["api_url"] = cfg.Processor.APIURL
	}
	if includeZero || strings.TrimSpace(cfg.Processor.APIToken) != "" {
		processor["api_token"] = cfg.Processor.APIToken
	}
	if includeZero || strings.TrimSpace(cfg.Processor.SigningSecret) != "" {
		processor["signing_secret"] = cfg.Processor.SigningSecret
	}
	if includeZero || cfg.Processor.Verify {
		processor["verify"] = cfg.Processor.Verify
	}
	if len(processor) > 0 {
		layer["processor"] = processor
	}

	mail := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.Mail.APIURL) != "" {
		mail["api_url"] = cfg.Mail.APIURL
	}
	if includeZero || strings.TrimSpace(cfg.Mail.APIToken) != "" {
		mail["api_token"] = cfg.Mail.APIToken
	}
	if includeZero || strings.TrimSpace(cfg.Mail.From) != "" {
		mail["from"] = cfg.Mail.From
	}
	if includeZero || strings.TrimSpace(cfg.Mail.NotifyAddress) != "" {
		mail["notify_address"] = cfg.Mail.NotifyAddress
	}
	if includeZero || cfg.Mail.CustomerCopy {
		mail["customer_copy"] = cfg.Mail.CustomerCopy
	}
	if len(mail) > 0 {
		layer["mail"] = mail
	}

	commerce := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.Commerce.StoreDomain) != "" {
		commerce["store_domain"] = cfg.Commerce.StoreDomain
	}
	if includeZero || strings.TrimSpace(cfg.Commerce.AccessToken) != "" {
		commerce["access_token"] = cfg.Commerce.AccessToken
	}
	if includeZero || strings.TrimSpace(cfg.Commerce.APIVersion) != "" {
		commerce["api_version"] = cfg.Commerce.APIVersion
	}
	if len(commerce) > 0 {
		layer["commerce"] = commerce
	}

	return layer
}
