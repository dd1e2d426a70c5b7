package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/rajnandniparmar/Event-Finder/internal/apperrors"
	"github.com/rajnandniparmar/Event-Finder/internal/geo"
)

const (
	msgMissingParams = "Please provide a date, latitude, longitude, and page in the query parameters."
	msgInvalidDate   = "Invalid date format. Please provide the date in yyyy-mm-dd format."
	msgInvalidCoord  = "latitude and longitude must be decimal numbers."
	msgInvalidPage   = "page must be a positive integer."
)

// dateLayouts are tried in order. Only the calendar date is kept.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
}

// Params holds the raw query values as they arrive from the client.
type Params struct {
	Date      string
	Latitude  string
	Longitude string
	Page      string
}

// Query is a validated search request.
type Query struct {
	Date   time.Time // midnight UTC of the requested day
	Origin geo.Point
	Page   int
}

// ParseQuery validates p. Every failure is a VALIDATION AppError.
func ParseQuery(p Params) (Query, error) {
	date := strings.TrimSpace(p.Date)
	latStr := strings.TrimSpace(p.Latitude)
	lonStr := strings.TrimSpace(p.Longitude)
	pageStr := strings.TrimSpace(p.Page)

	if date == "" || latStr == "" || lonStr == "" || pageStr == "" {
		return Query{}, apperrors.NewValidationError(msgMissingParams)
	}

	day, ok := parseDay(date)
	if !ok {
		return Query{}, apperrors.NewValidationError(msgInvalidDate)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Query{}, apperrors.NewValidationError(msgInvalidCoord)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return Query{}, apperrors.NewValidationError(msgInvalidCoord)
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return Query{}, apperrors.NewValidationError(msgInvalidPage)
	}

	return Query{
		Date:   day,
		Origin: geo.Point{Latitude: lat, Longitude: lon},
		Page:   page,
	}, nil
}

// parseDay parses s and truncates it to a calendar day in UTC.
func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
