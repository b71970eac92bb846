package helpers

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"price-movers/src/logger"
)

// Browser agents sent in turn. Yahoo rejects the default Go client agent.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// -----------------------------------------------------------------------------

// ProxyRotator cycles through configured proxies and User-Agents.
// With no proxies every request goes direct.
type ProxyRotator struct {
	mu       sync.Mutex
	proxies  []*url.URL
	agents   []string
	proxyIdx int
	agentIdx int
	logger   *logger.Logger
}

// -----------------------------------------------------------------------------

// NewProxyRotator parses proxies ("host:port" gets http://). Unparseable
// entries are skipped with a warning. A non-empty userAgent pins the agent.
func NewProxyRotator(proxies []string, userAgent string) *ProxyRotator {
	r := &ProxyRotator{
		agents: defaultUserAgents,
		logger: logger.NewLogger("ProxyRotator"),
	}
	if userAgent != "" {
		r.agents = []string{userAgent}
	}

	for _, p := range proxies {
		u, err := ParseProxy(p)
		if err != nil {
			r.logger.Warning("Skipping proxy %q: %v", p, err)
			continue
		}
		r.proxies = append(r.proxies, u)
	}
	return r
}

// -----------------------------------------------------------------------------

func (r *ProxyRotator) Current() *url.URL {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.proxies) == 0 {
		return nil
	}
	return r.proxies[r.proxyIdx]
}

// -----------------------------------------------------------------------------

func (r *ProxyRotator) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.proxies) < 2 {
		return
	}
	r.proxyIdx = (r.proxyIdx + 1) % len(r.proxies)
	r.logger.Info("Switched to proxy %s", r.proxies[r.proxyIdx].Host)
}

// -----------------------------------------------------------------------------

func (r *ProxyRotator) UserAgent() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ua := r.agents[r.agentIdx]
	r.agentIdx = (r.agentIdx + 1) % len(r.agents)
	return ua
}

// -----------------------------------------------------------------------------

// ParseProxy accepts http, https and socks5 proxies, defaulting to http.
func ParseProxy(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty proxy")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy has no host")
	}
	return u, nil
}
