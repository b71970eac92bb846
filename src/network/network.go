package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"price-movers/src/helpers"
	"price-movers/src/interfaces"
	"price-movers/src/logger"
	"price-movers/src/models"

	"golang.org/x/time/rate"
)

// maxBodyBytes caps a response body. Ten years of daily bars is well under 4MB.
const maxBodyBytes = 32 << 20

// NetworkManager performs rate-limited GETs with retries. Proxy and
// User-Agent come from the rotator on every attempt.
type NetworkManager struct {
	Config  models.MNetworkConfig
	Rotator interfaces.IProxyRotator
	Client  *http.Client
	Logger  *logger.Logger
	limiter *rate.Limiter
	backoff time.Duration
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg models.MNetworkConfig, log *logger.Logger) *NetworkManager {
	var proxies []string
	if cfg.Enabled {
		proxies = cfg.Proxies
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	nm := &NetworkManager{
		Config:  cfg,
		Rotator: helpers.NewProxyRotator(proxies, cfg.UserAgent),
		Logger:  log,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		backoff: time.Second,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.InsecureTLS}
	transport.Proxy = func(*http.Request) (*url.URL, error) { return nm.Rotator.Current(), nil }

	nm.Client = &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
	}
	return nm
}

// -----------------------------------------------------------------------------

// statusError is a non-200 response.
type statusError struct{ code int }

func (e statusError) Error() string { return fmt.Sprintf("bad status: %d", e.code) }

func (e statusError) blocked() bool {
	return e.code == http.StatusTooManyRequests || e.code == http.StatusForbidden
}

// -----------------------------------------------------------------------------

// Get fetches urlStr with params merged into its query. Blocked responses
// (403, 429) switch proxy before the next attempt.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, helpers.NewNetworkError("invalid url", err)
	}
	q := reqURL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqURL.RawQuery = q.Encode()
	target := reqURL.String()

	body, err := helpers.RetryWithBackoff(ctx, "GET "+reqURL.Host+reqURL.Path, nm.Config.MaxRetries, nm.backoff, nm.Logger,
		func(ctx context.Context) ([]byte, error) {
			if err := nm.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			body, err := nm.do(ctx, target)
			if se, ok := err.(statusError); ok && se.blocked() {
				nm.Logger.Warning("Request blocked (%d)", se.code)
				nm.Rotator.Advance()
			}
			return body, err
		})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, helpers.NewNetworkError("max retries exceeded", err)
	}
	return body, nil
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", nm.Rotator.UserAgent())
	req.Header.Set("Accept", "application/json, text/csv;q=0.9, */*;q=0.8")

	resp, err := nm.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, statusError{code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
