// Package geoapi is the HTTP client for the external geolocation service.
// The service is ipapi.co compatible: GET <base>/{ip}/country_code/ answers
// with a bare location code in the body.
package geoapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

type Client struct {
	base string
	hc   *http.Client
}

func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

// CountryCode resolves one public IPv4 address to a coarse location code.
func (c *Client) CountryCode(ctx context.Context, ip netip.Addr) (string, error) {
	url := fmt.Sprintf("%s/%s/country_code/", c.base, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("geo lookup %s: %w", ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geo lookup %s: unexpected status %s", ip, resp.Status)
	}

	// Codes are a couple of bytes; anything longer is not a valid answer.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", fmt.Errorf("geo lookup %s: %w", ip, err)
	}

	code := strings.TrimSpace(string(body))
	if code == "" {
		return "", fmt.Errorf("geo lookup %s: empty response", ip)
	}

	return code, nil
}
