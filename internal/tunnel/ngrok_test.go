package tunnel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL_BaseURLOverride(t *testing.T) {
	c := NewClient("http://localhost:4040/api/tunnels", "https://bot.example.com")
	url, err := c.PublicURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://bot.example.com", url)
}

func TestPublicURL_PicksHTTPSTunnel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tunnels": [
			{"proto": "http", "public_url": "http://abc123.ngrok.io"},
			{"proto": "https", "public_url": "https://abc123.ngrok.io"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	url, err := c.PublicURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://abc123.ngrok.io", url)
}

func TestPublicURL_NoHTTPSTunnel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tunnels": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.PublicURL(context.Background())
	assert.Error(t, err)
}

func TestPublicURL_APIDown(t *testing.T) {
	c := NewClient("http://localhost:1/api/tunnels", "")
	_, err := c.PublicURL(context.Background())
	assert.Error(t, err)
}
