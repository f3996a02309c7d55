package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/marcilla-smith/wellcheck-mvp/internal/domain"
	"github.com/marcilla-smith/wellcheck-mvp/internal/observability"
)

// Resolver turns a client network address into an approximate location
// using a primary geolocation provider with a secondary fallback. It never
// returns an error: every failure degrades to an undetected placeholder.
type Resolver struct {
	primaryBaseURL   string
	secondaryBaseURL string
	httpClient       *http.Client

	mu    sync.RWMutex
	cache map[string]domain.Location
}

// NewResolver builds a Resolver against the given provider base URLs.
// timeout bounds each outbound lookup.
func NewResolver(primaryBaseURL, secondaryBaseURL string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		primaryBaseURL:   strings.TrimRight(primaryBaseURL, "/"),
		secondaryBaseURL: strings.TrimRight(secondaryBaseURL, "/"),
		httpClient:       &http.Client{Timeout: timeout},
		cache:            make(map[string]domain.Location),
	}
}

// primaryResponse is the ip-api.com JSON shape. Success sentinel is the
// literal status string "success".
type primaryResponse struct {
	Status     string  `json:"status"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// secondaryResponse is the ipapi.co JSON shape. There is no status field;
// a lookup is usable only when both city and region came back non-empty.
type secondaryResponse struct {
	City        string  `json:"city"`
	Region      string  `json:"region"`
	CountryName string  `json:"country_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Resolve implements domain.Geolocator.
func (r *Resolver) Resolve(ctx context.Context, clientAddr string) domain.Location {
	ip := NormalizeAddress(clientAddr)

	log := observability.LoggerFromContext(ctx).With("ip", ip)

	// Loopback, private and malformed addresses can never yield a
	// meaningful location, so skip the network entirely.
	if !publiclyRoutable(ip) {
		return domain.UndetectedLocation(clientAddr)
	}

	if loc, ok := r.cached(ip); ok {
		return loc
	}

	loc, err := r.lookupPrimary(ctx, ip)
	if err != nil {
		log.Warn("primary geolocation lookup failed", "error", err)
		loc, err = r.lookupSecondary(ctx, ip)
		if err != nil {
			log.Warn("secondary geolocation lookup failed", "error", err)
			return domain.UndetectedLocation(clientAddr)
		}
	}

	loc.SourceAddress = clientAddr
	r.store(ip, loc)
	return loc
}

func (r *Resolver) lookupPrimary(ctx context.Context, ip string) (domain.Location, error) {
	var body primaryResponse
	if err := r.getJSON(ctx, r.primaryBaseURL+"/"+ip, &body); err != nil {
		return domain.Location{}, err
	}
	if body.Status != "success" {
		return domain.Location{}, fmt.Errorf("provider status %q", body.Status)
	}

	lat, lon := body.Lat, body.Lon
	return domain.Location{
		Country:   body.Country,
		Region:    body.RegionName,
		City:      body.City,
		Latitude:  &lat,
		Longitude: &lon,
		Detected:  true,
	}, nil
}

func (r *Resolver) lookupSecondary(ctx context.Context, ip string) (domain.Location, error) {
	var body secondaryResponse
	if err := r.getJSON(ctx, r.secondaryBaseURL+"/"+ip+"/json/", &body); err != nil {
		return domain.Location{}, err
	}
	if body.City == "" || body.Region == "" {
		return domain.Location{}, fmt.Errorf("provider returned empty city/region")
	}

	lat, lon := body.Latitude, body.Longitude
	return domain.Location{
		Country:   body.CountryName,
		Region:    body.Region,
		City:      body.City,
		Latitude:  &lat,
		Longitude: &lon,
		Detected:  true,
	}, nil
}

func (r *Resolver) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling geolocation provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geolocation provider status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing geolocation response: %w", err)
	}
	return nil
}

func (r *Resolver) cached(ip string) (domain.Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.cache[ip]
	return loc, ok
}

func (r *Resolver) store(ip string, loc domain.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache[ip] = loc
}

// NormalizeAddress takes the first entry of a comma-separated forwarding
// chain, trims whitespace, and strips an IPv6-mapped-IPv4 prefix.
func NormalizeAddress(clientAddr string) string {
	first := clientAddr
	if i := strings.Index(first, ","); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	first = strings.TrimPrefix(first, "::ffff:")
	return first
}

func publiclyRoutable(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
		return false
	}
	return true
}
