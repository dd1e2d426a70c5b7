package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajnandniparmar/Event-Finder/internal/apperrors"
	"github.com/rajnandniparmar/Event-Finder/internal/metrics"
)

func TestLookup_ReturnsWeatherPayload(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"code": q.Get("code"),
			"city": q.Get("city"),
			"date": q.Get("date"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"weather":"Sunny, 24C"}`))
	}))
	defer srv.Close()

	m := metrics.New()
	c := NewClient(srv.URL+"/api/Weather", "secret", time.Second, m)

	payload, err := c.Lookup(context.Background(), "San Antonio", "2024-03-15")
	require.NoError(t, err)

	assert.JSONEq(t, `"Sunny, 24C"`, string(payload))
	assert.Equal(t, map[string]string{"code": "secret", "city": "San Antonio", "date": "2024-03-15"}, gotQuery)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WeatherLookups.WithLabelValues("ok")))
}

func TestLookup_KeepsStructuredPayloadOpaque(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"weather":{"temp":21.5,"summary":"Cloudy"},"extra":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second, nil)
	payload, err := c.Lookup(context.Background(), "Lyon", "2024-04-01")
	require.NoError(t, err)
	assert.JSONEq(t, `{"temp":21.5,"summary":"Cloudy"}`, string(payload))
}

func TestLookup_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"missing weather field": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"forecast":"rain"}`))
		},
		"null weather field": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"weather":null}`))
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			m := metrics.New()
			c := NewClient(srv.URL, "k", time.Second, m)

			_, err := c.Lookup(context.Background(), "Paris", "2024-01-01")
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.TypeLookup))
			assert.Equal(t, 1.0, testutil.ToFloat64(m.WeatherLookups.WithLabelValues("error")))
		})
	}
}

func TestLookup_TimeoutIsLookupError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "k", 50*time.Millisecond, nil)
	_, err := c.Lookup(context.Background(), "Oslo", "2024-01-01")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeLookup))
}

func TestLookup_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "k", time.Second, nil)
	_, err := c.Lookup(context.Background(), "Rome", "2024-01-01")
	assert.True(t, apperrors.IsType(err, apperrors.TypeLookup))
}
