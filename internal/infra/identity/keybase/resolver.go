// Package keybase resolves validator identities to avatar URLs through the
// keybase user lookup API.
package keybase

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	httpclient "github.com/WHTechno/wsxplore/internal/pkg/transport/http"
)

// DefaultBaseURL is the keybase API root.
const DefaultBaseURL = "https://keybase.io/_/api/1.0"

// lookupResponse is the subset of user/lookup.json the resolver reads.
type lookupResponse struct {
	Them []struct {
		Pictures struct {
			Primary struct {
				URL string `json:"url"`
			} `json:"primary"`
		} `json:"pictures"`
	} `json:"them"`
}

// logoURL returns the primary picture of the first matched user.
func (r lookupResponse) logoURL() string {
	if len(r.Them) == 0 {
		return ""
	}
	return r.Them[0].Pictures.Primary.URL
}

type config struct {
	baseURL  string
	cacheTTL time.Duration
	limit    rate.Limit
	burst    int
}

// Option configures the resolver.
type Option func(*config)

// WithBaseURL points the resolver at another API root.
//
// Default: DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithCacheTTL sets how long a resolved identity is kept, including
// identities without a picture.
//
// Default: 6 hours.
func WithCacheTTL(d time.Duration) Option {
	return func(c *config) {
		c.cacheTTL = d
	}
}

// WithRateLimit bounds the lookups sent to the API.
//
// Default: 5 per second, burst of 5.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *config) {
		c.limit = limit
		c.burst = burst
	}
}

// resolver implements chaindata.IdentityResolver.
type resolver struct {
	conn    httpclient.Client
	baseURL string
	cache   *cache.Cache
	limiter *rate.Limiter
}

var _ chaindata.IdentityResolver = (*resolver)(nil)

// New creates a caching, rate limited identity resolver.
func New(conn httpclient.Client, opts ...Option) *resolver {
	cfg := config{
		baseURL:  DefaultBaseURL,
		cacheTTL: 6 * time.Hour,
		limit:    5,
		burst:    5,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &resolver{
		conn:    conn,
		baseURL: strings.TrimRight(cfg.baseURL, "/"),
		cache:   cache.New(cfg.cacheTTL, 2*cfg.cacheTTL),
		limiter: rate.NewLimiter(cfg.limit, cfg.burst),
	}
}

// Logo returns the avatar URL of identity, "" when it has none. Failed
// lookups are not cached.
func (r *resolver) Logo(ctx context.Context, identity string) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", nil
	}

	if logo, ok := r.cache.Get(identity); ok {
		return logo.(string), nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("key_suffix", identity)
	query.Set("fields", "pictures")

	var resp lookupResponse
	if err := r.conn.GetJSON(ctx, r.baseURL+"/user/lookup.json?"+query.Encode(), &resp); err != nil {
		if !httpclient.IsNotFound(err) {
			return "", err
		}
	}

	logo := resp.logoURL()
	r.cache.SetDefault(identity, logo)

	return logo, nil
}
