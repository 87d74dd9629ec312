package probe

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type HTTPConfig struct {
	Timeout         time.Duration `mapstructure:"http_timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
	VerifyTLS       bool          `mapstructure:"verify_tls"`
}

type HTTPResult struct {
	Status      int
	Latency     time.Duration
	ContentType string
	Server      string
}

type HTTPClient struct {
	c   *http.Client
	cfg HTTPConfig
}

func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   cfg.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.VerifyTLS,
			MinVersion:         tls.VersionTLS12,
		},
	}
	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(transport),
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return &HTTPClient{c: client, cfg: cfg}
}

// Get issues a GET and reports the final status. Transport failures are
// returned as errors; any HTTP status is a result.
func (cl *HTTPClient) Get(ctx context.Context, url string) (HTTPResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, NormalizeURL(url), nil)
	if err != nil {
		return HTTPResult{}, err
	}
	if cl.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cl.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := cl.c.Do(req)
	if err != nil {
		return HTTPResult{Latency: time.Since(start)}, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return HTTPResult{
		Status:      resp.StatusCode,
		Latency:     time.Since(start),
		ContentType: resp.Header.Get("Content-Type"),
		Server:      resp.Header.Get("Server"),
	}, nil
}

func NormalizeURL(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return t
	}
	if strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://") {
		return t
	}
	return "http://" + t
}
