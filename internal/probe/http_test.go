package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cloudcorrect-test", r.UserAgent())
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Server", "echo")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPConfig{Timeout: time.Second, UserAgent: "cloudcorrect-test"})
	res, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "text/plain", res.ContentType)
	assert.Equal(t, "echo", res.Server)
}

func TestHTTPClient_NoRedirectFollow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := NewHTTPClient(HTTPConfig{}).Get(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, res.Status)

	res, err = NewHTTPClient(HTTPConfig{FollowRedirects: true}).Get(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
}

func TestHTTPClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res, err := NewHTTPClient(HTTPConfig{}).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, res.Status)
}

func TestHTTPClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(HTTPConfig{Timeout: 500 * time.Millisecond}).Get(context.Background(), url)
	assert.Error(t, err)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "", NormalizeURL("  "))
	assert.Equal(t, "http://example.com", NormalizeURL(" example.com "))
	assert.Equal(t, "https://example.com/x", NormalizeURL("https://example.com/x"))
}

func TestNewICMPClient_DefaultTimeout(t *testing.T) {
	c := NewICMPClient(ICMPConfig{})
	assert.Equal(t, 2*time.Second, c.cfg.Timeout)

	_, err := c.Ping(context.Background(), "invalid host name with spaces")
	assert.Error(t, err)
}
