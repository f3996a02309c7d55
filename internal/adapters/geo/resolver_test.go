package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcilla-smith/wellcheck-mvp/internal/adapters/geo"
)

const primaryBody = `{"status":"success","country":"United States","regionName":"Michigan","city":"Detroit","lat":42.33,"lon":-83.04}`
const secondaryBody = `{"city":"Chicago","region":"Illinois","country_name":"United States","latitude":41.88,"longitude":-87.63}`

func countingServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolvePrimarySuccess(t *testing.T) {
	var primaryHits, secondaryHits int32
	primary := countingServer(t, http.StatusOK, primaryBody, &primaryHits)
	secondary := countingServer(t, http.StatusOK, secondaryBody, &secondaryHits)

	r := geo.NewResolver(primary.URL, secondary.URL, time.Second)
	loc := r.Resolve(context.Background(), "8.8.8.8")

	assert.True(t, loc.Detected)
	assert.Equal(t, "Detroit", loc.City)
	assert.Equal(t, "Michigan", loc.Region)
	assert.Equal(t, "United States", loc.Country)
	assert.Equal(t, "8.8.8.8", loc.SourceAddress)
	require.NotNil(t, loc.Latitude)
	assert.InDelta(t, 42.33, *loc.Latitude, 0.001)
	assert.EqualValues(t, 1, atomic.LoadInt32(&primaryHits))
	assert.EqualValues(t, 0, atomic.LoadInt32(&secondaryHits), "secondary must not be called when primary succeeds")
}

func TestResolveFallsBackToSecondary(t *testing.T) {
	var primaryHits, secondaryHits int32
	primary := countingServer(t, http.StatusInternalServerError, "", &primaryHits)
	secondary := countingServer(t, http.StatusOK, secondaryBody, &secondaryHits)

	r := geo.NewResolver(primary.URL, secondary.URL, time.Second)
	loc := r.Resolve(context.Background(), "8.8.8.8")

	assert.True(t, loc.Detected)
	assert.Equal(t, "Chicago", loc.City)
	assert.Equal(t, "Illinois", loc.Region)
	assert.EqualValues(t, 1, atomic.LoadInt32(&secondaryHits))
}

func TestResolvePrimaryFailSentinelTriggersFallback(t *testing.T) {
	var primaryHits, secondaryHits int32
	primary := countingServer(t, http.StatusOK, `{"status":"fail","message":"reserved range"}`, &primaryHits)
	secondary := countingServer(t, http.StatusOK, secondaryBody, &secondaryHits)

	r := geo.NewResolver(primary.URL, secondary.URL, time.Second)
	loc := r.Resolve(context.Background(), "8.8.8.8")

	assert.True(t, loc.Detected)
	assert.Equal(t, "Chicago", loc.City)
}

func TestResolveBothProvidersFailing(t *testing.T) {
	var primaryHits, secondaryHits int32
	primary := countingServer(t, http.StatusBadGateway, "", &primaryHits)
	secondary := countingServer(t, http.StatusOK, `{"city":"","region":""}`, &secondaryHits)

	r := geo.NewResolver(primary.URL, secondary.URL, time.Second)
	loc := r.Resolve(context.Background(), "8.8.8.8")

	assert.False(t, loc.Detected)
	assert.Equal(t, "your area", loc.City)
	assert.Equal(t, "your region", loc.Region)
	assert.Equal(t, "8.8.8.8", loc.SourceAddress)
}

func TestResolveLoopbackAndPrivateSkipProviders(t *testing.T) {
	var primaryHits, secondaryHits int32
	primary := countingServer(t, http.StatusOK, primaryBody, &primaryHits)
	secondary := countingServer(t, http.StatusOK, secondaryBody, &secondaryHits)

	r := geo.NewResolver(primary.URL, secondary.URL, time.Second)

	for _, addr := range []string{"127.0.0.1", "::1", "10.1.2.3", "192.168.0.10", "172.16.5.5", "not-an-ip", ""} {
		loc := r.Resolve(context.Background(), addr)
		assert.False(t, loc.Detected, "addr %q must not be detected", addr)
	}

	assert.EqualValues(t, 0, atomic.LoadInt32(&primaryHits), "no provider call for unroutable addresses")
	assert.EqualValues(t, 0, atomic.LoadInt32(&secondaryHits))
}

func TestResolveCachesSuccessfulLookups(t *testing.T) {
	var primaryHits, secondaryHits int32
	primary := countingServer(t, http.StatusOK, primaryBody, &primaryHits)
	secondary := countingServer(t, http.StatusOK, secondaryBody, &secondaryHits)

	r := geo.NewResolver(primary.URL, secondary.URL, time.Second)

	first := r.Resolve(context.Background(), "8.8.8.8")
	second := r.Resolve(context.Background(), "8.8.8.8")

	assert.Equal(t, first.City, second.City)
	assert.EqualValues(t, 1, atomic.LoadInt32(&primaryHits), "second lookup must come from the cache")
}

func TestNormalizeAddress(t *testing.T) {
	cases := map[string]string{
		"203.0.113.7":                  "203.0.113.7",
		"203.0.113.7, 70.41.3.18":      "203.0.113.7",
		" 203.0.113.7 , 70.41.3.18":    "203.0.113.7",
		"::ffff:203.0.113.7":           "203.0.113.7",
		"::ffff:203.0.113.7, 10.0.0.1": "203.0.113.7",
	}
	for in, want := range cases {
		assert.Equal(t, want, geo.NormalizeAddress(in), "input %q", in)
	}
}
