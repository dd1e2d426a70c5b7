package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rajnandniparmar/Event-Finder/internal/apperrors"
	"github.com/rajnandniparmar/Event-Finder/internal/geo"
	"github.com/rajnandniparmar/Event-Finder/internal/logging"
	"github.com/rajnandniparmar/Event-Finder/internal/metrics"
	"github.com/rajnandniparmar/Event-Finder/internal/models"
	"github.com/rajnandniparmar/Event-Finder/internal/store"
)

// PageSize is the fixed number of events per result page.
const PageSize = 10

// WeatherLookup fetches the weather payload for a city on a date.
type WeatherLookup interface {
	Lookup(ctx context.Context, city, date string) (json.RawMessage, error)
}

// Service runs the filter, sort, paginate and enrich pipeline.
type Service struct {
	store   store.EventStore
	weather WeatherLookup
	metrics *metrics.Metrics
}

// NewService creates a search service. m may be nil.
func NewService(st store.EventStore, w WeatherLookup, m *metrics.Metrics) *Service {
	return &Service{store: st, weather: w, metrics: m}
}

// candidate is a filtered event with its sort keys precomputed.
type candidate struct {
	event    models.Event
	day      time.Time
	distance float64
}

// Search validates p and returns one enriched page. Validation failures are
// VALIDATION errors; anything else that goes wrong is an INTERNAL error.
func (s *Service) Search(ctx context.Context, p Params) (res models.SearchResult, err error) {
	q, err := ParseQuery(p)
	if err != nil {
		return models.SearchResult{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			res = models.SearchResult{}
			err = apperrors.NewInternalError("search failed", fmt.Errorf("panic: %v", r))
		}
	}()

	events, err := s.store.List(ctx)
	if err != nil {
		return models.SearchResult{}, apperrors.NewInternalError("list events", err)
	}

	hits := filterAndSort(events, q)
	total := len(hits)

	enriched := s.enrich(ctx, paginate(hits, q.Page))
	if s.metrics != nil {
		s.metrics.SearchPageEvents.Observe(float64(len(enriched)))
	}

	return models.SearchResult{
		Events:      enriched,
		Page:        q.Page,
		PageSize:    PageSize,
		TotalEvents: total,
		TotalPages:  (total + PageSize - 1) / PageSize,
	}, nil
}

// filterAndSort keeps events on or after q.Date and orders them by day, then
// by distance from q.Origin. Events whose date does not parse are skipped.
func filterAndSort(events []models.Event, q Query) []candidate {
	hits := make([]candidate, 0, len(events))
	for _, e := range events {
		day, ok := parseDay(e.Date)
		if !ok || day.Before(q.Date) {
			continue
		}
		hits = append(hits, candidate{
			event:    e,
			day:      day,
			distance: q.Origin.DistanceTo(geo.Point{Latitude: float64(e.Latitude), Longitude: float64(e.Longitude)}),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if !hits[i].day.Equal(hits[j].day) {
			return hits[i].day.Before(hits[j].day)
		}
		return hits[i].distance < hits[j].distance
	})
	return hits
}

// paginate returns the 1-based page of hits, or nil when page is past the end.
func paginate(hits []candidate, page int) []candidate {
	// Compare page counts before multiplying so huge pages cannot overflow.
	if page < 1 || page-1 >= (len(hits)+PageSize-1)/PageSize {
		return nil
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(hits) {
		end = len(hits)
	}
	return hits[start:end]
}

// enrich looks up weather for every hit concurrently and waits for all of
// them. Hits whose lookup fails are dropped; survivors keep page order. The
// lookups are not cancelled when the caller goes away.
func (s *Service) enrich(ctx context.Context, page []candidate) []models.EnrichedEvent {
	ctx = context.WithoutCancel(ctx)
	logger := logging.FromContext(ctx)

	slots := make([]*models.EnrichedEvent, len(page))
	var wg sync.WaitGroup

	for i, c := range page {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Error().Interface("panic", r).Str("event_name", c.event.EventName).Msg("enrichment panicked, dropping event")
				}
			}()

			w, err := s.weather.Lookup(ctx, c.event.CityName, c.event.Date)
			if err != nil {
				logger.Warn().Err(err).
					Str("event_name", c.event.EventName).
					Str("city_name", c.event.CityName).
					Str("date", c.event.Date).
					Msg("weather lookup failed, dropping event")
				return
			}

			slots[i] = &models.EnrichedEvent{
				EventName:  c.event.EventName,
				CityName:   c.event.CityName,
				Date:       c.event.Date,
				Weather:    w,
				DistanceKm: c.distance,
			}
		}()
	}
	wg.Wait()

	out := make([]models.EnrichedEvent, 0, len(page))
	for _, e := range slots {
		if e != nil {
			out = append(out, *e)
		}
	}
	if dropped := len(page) - len(out); dropped > 0 && s.metrics != nil {
		s.metrics.EnrichDropped.Add(float64(dropped))
	}
	return out
}
