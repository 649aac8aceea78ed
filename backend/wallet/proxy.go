package wallet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no wallet API base URL is set.
var ErrNotConfigured = errors.New("wallet API is not configured")

// Proxy forwards requests to an external Lightning wallet API, attaching
// the API key. The portal never interprets wallet responses, it only
// relays them.
type Proxy struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewProxy(baseURL, apiKey string) *Proxy {
	return &Proxy{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Forward relays one request to the wallet API and returns the upstream
// status code and body verbatim.
func (p *Proxy) Forward(method, path string, body []byte) (int, []byte, error) {
	if p.BaseURL == "" {
		return 0, nil, ErrNotConfigured
	}

	url := strings.TrimSuffix(p.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build wallet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("X-Api-Key", p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("call wallet API: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read wallet response: %w", err)
	}
	return resp.StatusCode, payload, nil
}
