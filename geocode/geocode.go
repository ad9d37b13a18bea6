package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Address holds the Nominatim address fields used to build a place name.
type Address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	County  string `json:"county"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// ReverseResponse is the subset of the Nominatim /reverse response we read.
type ReverseResponse struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
	Error       string  `json:"error,omitempty"`
}

// FormatPlace reduces an address to "place, country". The place is the first
// of city, town, village, county and state. Nil when nothing is known.
func FormatPlace(a Address) *string {
	var parts []string
	for _, candidate := range []string{a.City, a.Town, a.Village, a.County, a.State} {
		if candidate != "" {
			parts = append(parts, candidate)
			break
		}
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	if len(parts) == 0 {
		return nil
	}
	place := strings.Join(parts, ", ")
	return &place
}

type cacheEntry struct {
	place   *string
	expires time.Time
}

// Client reverse-geocodes coordinates against a Nominatim compatible service.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	ttl        time.Duration
	logger     zerolog.Logger
	now        func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewClient(settings config.GeocoderSettings) *Client {
	return &Client{
		baseURL:    strings.TrimRight(settings.BaseURL, "/"),
		userAgent:  settings.UserAgent,
		httpClient: &http.Client{Timeout: settings.Timeout},
		ttl:        settings.CacheTTL,
		logger:     log.With().Str("component", "geocode").Logger(),
		now:        time.Now,
		cache:      make(map[string]cacheEntry),
	}
}

// cacheKey rounds to 4 decimals, roughly 11m, which is well inside one place name.
func cacheKey(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)
}

// Reverse returns "place, country" for the coordinates, or nil when the
// service knows no place there. Identical concurrent lookups share one request
// and results are cached for the configured TTL.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*string, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, errs.NewInvalidFieldError("lat/lon", "coordinates out of range")
	}

	key := cacheKey(lat, lon)
	if place, ok := c.cached(key); ok {
		return place, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		place, err := c.lookup(ctx, lat, lon)
		if err != nil {
			return nil, err
		}
		c.store(key, place)
		return place, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*string), nil
}

func (c *Client) cached(key string) (*string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.cache, key)
		return nil, false
	}
	return entry.place, true
}

func (c *Client) store(key string, place *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{place: place, expires: c.now().Add(c.ttl)}
}

func (c *Client) lookup(ctx context.Context, lat, lon float64) (*string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewServiceUnreachableError("geocoder", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errs.NewServiceUnreachableError("geocoder", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewUpstreamError("geocoder", resp.StatusCode, string(body))
	}

	var decoded ReverseResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if decoded.Error != "" {
		c.logger.Debug().Str("error", decoded.Error).Float64("lat", lat).Float64("lon", lon).Msg("no place for coordinates")
		return nil, nil
	}

	return FormatPlace(decoded.Address), nil
}
