package prices

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Service fetches the current BTC spot price with a short timeout and
// falls back to the last cached value when the upstream API is down.
type Service struct {
	APIURL    string
	CachePath string
	Client    *http.Client
}

func NewService(apiURL, cachePath string) *Service {
	return &Service{
		APIURL:    apiURL,
		CachePath: cachePath,
		Client:    &http.Client{Timeout: 5 * time.Second},
	}
}

type priceResponse struct {
	BPI struct {
		USD struct {
			RateFloat float64 `json:"rate_float"`
		} `json:"USD"`
	} `json:"bpi"`
}

type cachedPrice struct {
	Price    float64   `json:"price"`
	CachedAt time.Time `json:"cached_at"`
}

// Current returns the USD spot price. The second return value reports
// whether the price came from the local cache instead of the live API.
func (s *Service) Current() (float64, bool, error) {
	price, err := s.fetch()
	if err == nil {
		s.cache(price)
		return price, false, nil
	}

	cached, cacheErr := s.readCache()
	if cacheErr != nil {
		return 0, false, fmt.Errorf("fetch price: %w", err)
	}
	return cached.Price, true, nil
}

func (s *Service) fetch() (float64, error) {
	resp, err := s.Client.Get(s.APIURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price API returned %d", resp.StatusCode)
	}

	var payload priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}
	return payload.BPI.USD.RateFloat, nil
}

// cache is best-effort; a failed write never fails the request.
func (s *Service) cache(price float64) {
	if err := os.MkdirAll(filepath.Dir(s.CachePath), 0o755); err != nil {
		return
	}
	payload, err := json.Marshal(cachedPrice{Price: price, CachedAt: time.Now().UTC()})
	if err != nil {
		return
	}
	_ = os.WriteFile(s.CachePath, payload, 0o644)
}

func (s *Service) readCache() (*cachedPrice, error) {
	raw, err := os.ReadFile(s.CachePath)
	if err != nil {
		return nil, err
	}
	var cached cachedPrice
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}
