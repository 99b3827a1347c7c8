package container

import (
	"fmt"

	"csfloat/market/internal/client"
	"csfloat/market/internal/config"
	"csfloat/market/internal/executor"
	"csfloat/market/internal/proxy"
	"csfloat/market/internal/service"

	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Executor *executor.Executor
	Client   client.CSFloatClient

	Service *service.Service
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	if err := cfg.CSFloat.Validate(); err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}

	container := &Container{
		Config: cfg,
	}

	opts := []executor.Option{executor.WithLogger(log.StandardLogger())}

	// Initialize ProxySupplier
	if len(cfg.CSFloat.Proxies) > 0 {
		proxySupplier := proxy.NewProxySupplier(cfg.CSFloat.Proxies)
		if proxySupplier.Len() == 0 {
			log.Warn("No usable proxies configured, connecting directly")
		} else {
			opts = append(opts, executor.WithProxySupplier(proxySupplier))
		}
	}

	container.Executor = executor.New(cfg.CSFloat, opts...)
	container.Client = client.NewCSFloatClient(container.Executor)
	container.Service = service.NewService(container.Client)

	log.Debugf("Container initialized for %s", cfg.CSFloat.BaseURL)

	return container, nil
}
