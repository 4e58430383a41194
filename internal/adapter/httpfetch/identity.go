package httpfetch

import (
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// IdentityPool hands out client identities: a random user agent per request and
// proxies rotated round-robin.
type IdentityPool struct {
	userAgents []string
	proxies    []*url.URL

	mu         sync.Mutex
	proxyIndex int
}

// NewIdentityPool creates a pool. Invalid proxy URLs are ignored; an empty agent list uses the built-in pool.
func NewIdentityPool(userAgents []string, proxies []string) *IdentityPool {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	p := &IdentityPool{userAgents: userAgents}
	for _, raw := range proxies {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		p.proxies = append(p.proxies, u)
	}
	return p
}

// UserAgent returns a user agent picked uniformly at random.
func (p *IdentityPool) UserAgent() string {
	return p.userAgents[rand.IntN(len(p.userAgents))]
}

// Headers returns the browser-like header set for one request.
func (p *IdentityPool) Headers() map[string]string {
	return map[string]string{
		"User-Agent":      p.UserAgent(),
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Accept-Encoding": "gzip, br",
		"Connection":      "keep-alive",
	}
}

// Proxy returns the next proxy in rotation, or nil for a direct connection.
// Its signature matches http.Transport.Proxy.
func (p *IdentityPool) Proxy(_ *http.Request) (*url.URL, error) {
	if len(p.proxies) == 0 {
		return nil, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	proxy := p.proxies[p.proxyIndex]
	p.proxyIndex = (p.proxyIndex + 1) % len(p.proxies)
	return proxy, nil
}
