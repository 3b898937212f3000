package geoapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8/country_code/", r.URL.Path)
		w.Write([]byte("US\n"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	code, err := c.CountryCode(context.Background(), netip.MustParseAddr("8.8.8.8"))
	require.NoError(t, err)
	assert.Equal(t, "US", code)
}

func TestCountryCodeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.CountryCode(context.Background(), netip.MustParseAddr("8.8.8.8"))
	assert.Error(t, err)
}

func TestCountryCodeEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("  \n"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.CountryCode(context.Background(), netip.MustParseAddr("8.8.8.8"))
	assert.Error(t, err)
}

func TestCountryCodeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.CountryCode(context.Background(), netip.MustParseAddr("8.8.8.8"))
	assert.Error(t, err)
}
