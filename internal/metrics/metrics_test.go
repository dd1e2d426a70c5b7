package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InstancesAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.EventsAppended.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.EventsAppended))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.EventsAppended))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.WeatherLookups.WithLabelValues("error").Add(2)
	m.EnrichDropped.Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `event_finder_weather_lookups_total{outcome="error"} 2`)
	assert.Contains(t, string(body), `event_finder_search_enrichment_dropped_total 1`)
}
