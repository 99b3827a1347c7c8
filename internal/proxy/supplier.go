package proxy

import (
	"fmt"
	"net/url"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ProxySupplier hands out proxy URLs in round-robin order
type ProxySupplier interface {
	Get() string
	Len() int
}

type proxySupplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewProxySupplier creates a supplier from proxy URLs. Entries that do not
// parse as absolute http(s) or socks5 URLs are skipped.
func NewProxySupplier(proxies []string) ProxySupplier {
	valid := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if err := validate(p); err != nil {
			log.Warnf("Skipping proxy %q: %v", p, err)
			continue
		}
		valid = append(valid, p)
	}

	if len(proxies) > 0 {
		log.Infof("ProxySupplier initialized with %d usable proxies out of %d configured", len(valid), len(proxies))
	}

	return &proxySupplier{proxies: valid}
}

// Get returns the next proxy URL, or "" when the pool is empty
func (p *proxySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)

	return proxy
}

func (p *proxySupplier) Len() int {
	return len(p.proxies)
}

func validate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
