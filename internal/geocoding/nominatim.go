// Package geocoding resolves addresses to coordinates and back through a Nominatim compatible API.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"participium/internal/domain"

	"go.uber.org/ratelimit"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "participium-bot/1.0"
)

// ErrNotFound is returned when the service has no result for the query.
var ErrNotFound = errors.New("geocoding: no result")

// Geocoder is what the wizard needs from a geocoding backend.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Location, string, error)
	Reverse(ctx context.Context, loc domain.Location) (string, error)
}

// Client talks to Nominatim. Identical concurrent lookups share one request.
type Client struct {
	baseURL    string
	userAgent  string
	countries  string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	group      singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithRate limits outbound requests per second. Public Nominatim allows one.
func WithRate(perSecond int) Option {
	return func(cl *Client) {
		if perSecond > 0 {
			cl.limiter = ratelimit.New(perSecond)
		} else {
			cl.limiter = ratelimit.NewUnlimited()
		}
	}
}

// WithCountryCodes restricts forward lookups, e.g. "it".
func WithCountryCodes(codes string) Option {
	return func(cl *Client) { cl.countries = codes }
}

// NewClient creates a Client. Empty baseURL and userAgent fall back to the defaults.
func NewClient(baseURL, userAgent string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    ratelimit.New(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Geocode returns the first match for address and its display name.
func (c *Client) Geocode(ctx context.Context, address string) (domain.Location, string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Location{}, "", ErrNotFound
	}

	v, err, _ := c.group.Do("search:"+strings.ToLower(address), func() (any, error) {
		q := url.Values{}
		q.Set("q", address)
		q.Set("format", "json")
		q.Set("limit", "1")
		if c.countries != "" {
			q.Set("countrycodes", c.countries)
		}
		var results []searchResult
		if err := c.get(ctx, "/search?"+q.Encode(), &results); err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, ErrNotFound
		}
		return results[0], nil
	})
	if err != nil {
		return domain.Location{}, "", err
	}

	res := v.(searchResult)
	lat, errLat := strconv.ParseFloat(res.Lat, 64)
	lon, errLon := strconv.ParseFloat(res.Lon, 64)
	if errLat != nil || errLon != nil {
		return domain.Location{}, "", fmt.Errorf("geocoding: bad coordinates %q, %q", res.Lat, res.Lon)
	}
	return domain.Location{Latitude: lat, Longitude: lon}, res.DisplayName, nil
}

// Reverse returns the display name of the place at loc.
func (c *Client) Reverse(ctx context.Context, loc domain.Location) (string, error) {
	lat := strconv.FormatFloat(loc.Latitude, 'f', 6, 64)
	lon := strconv.FormatFloat(loc.Longitude, 'f', 6, 64)

	v, err, _ := c.group.Do("reverse:"+lat+","+lon, func() (any, error) {
		q := url.Values{}
		q.Set("lat", lat)
		q.Set("lon", lon)
		q.Set("format", "json")
		var res reverseResult
		if err := c.get(ctx, "/reverse?"+q.Encode(), &res); err != nil {
			return nil, err
		}
		if res.Error != "" || res.DisplayName == "" {
			return nil, ErrNotFound
		}
		return res.DisplayName, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	c.limiter.Take()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("geocoding: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocoding: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("geocoding: read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("geocoding: decode json: %w", err)
	}
	return nil
}

// ParseCoordinates accepts "lat, lon" or "lat lon" text.
func ParseCoordinates(text string) (domain.Location, bool) {
	fields := strings.FieldsFunc(strings.TrimSpace(text), func(r rune) bool {
		return r == ',' || r == ' ' || r == ';' || r == '\t'
	})
	if len(fields) != 2 {
		return domain.Location{}, false
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return domain.Location{}, false
	}
	lon, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return domain.Location{}, false
	}
	return domain.Location{Latitude: lat, Longitude: lon}, true
}
