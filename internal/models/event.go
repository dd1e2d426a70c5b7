package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Event is a stored event record. Date and Time keep the client's strings.
type Event struct {
	EventName string     `json:"event_name"`
	CityName  string     `json:"city_name"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
}

// Coordinate is a decimal-degree value. It decodes from a JSON number or a
// numeric string so records written by form posts still load.
type Coordinate float64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseCoordinate(s)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("coordinate must be a number: %w", err)
	}
	*c = Coordinate(f)
	return nil
}

// ParseCoordinate parses a coordinate from its string form. NaN and the
// infinities are rejected since they cannot be written back as JSON.
func ParseCoordinate(s string) (Coordinate, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("coordinate %q is not a number", s)
	}
	return Coordinate(f), nil
}

// AddEventRequest is the POST /events/add payload. Coordinates are pointers
// so an absent field can be told apart from zero.
type AddEventRequest struct {
	EventName string      `json:"event_name"`
	CityName  string      `json:"city_name"`
	Date      string      `json:"date"`
	Time      string      `json:"time"`
	Latitude  *Coordinate `json:"latitude"`
	Longitude *Coordinate `json:"longitude"`
}

// UnmarshalJSON implements json.Unmarshaler. A null or blank-string
// coordinate decodes as absent, matching an empty form field.
func (r *AddEventRequest) UnmarshalJSON(b []byte) error {
	type plain AddEventRequest
	var raw struct {
		plain
		Latitude  json.RawMessage `json:"latitude"`
		Longitude json.RawMessage `json:"longitude"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	lat, err := optionalCoordinate(raw.Latitude)
	if err != nil {
		return err
	}
	lon, err := optionalCoordinate(raw.Longitude)
	if err != nil {
		return err
	}

	*r = AddEventRequest(raw.plain)
	r.Latitude, r.Longitude = lat, lon
	return nil
}

func optionalCoordinate(raw json.RawMessage) (*Coordinate, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
	}

	var c Coordinate
	if err := c.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return &c, nil
}

// Complete reports whether all six fields are present and non-blank.
func (r AddEventRequest) Complete() bool {
	return strings.TrimSpace(r.EventName) != "" &&
		strings.TrimSpace(r.CityName) != "" &&
		strings.TrimSpace(r.Date) != "" &&
		strings.TrimSpace(r.Time) != "" &&
		r.Latitude != nil &&
		r.Longitude != nil
}

// Event converts a complete request into a storable Event.
func (r AddEventRequest) Event() Event {
	e := Event{
		EventName: r.EventName,
		CityName:  r.CityName,
		Date:      r.Date,
		Time:      r.Time,
	}
	if r.Latitude != nil {
		e.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		e.Longitude = *r.Longitude
	}
	return e
}

// EventsResponse is returned by GET /events.
type EventsResponse struct {
	Events []Event `json:"events"`
}

// EnrichedEvent is a search hit with weather and distance attached.
type EnrichedEvent struct {
	EventName  string          `json:"event_name"`
	CityName   string          `json:"city_name"`
	Date       string          `json:"date"`
	Weather    json.RawMessage `json:"weather"`
	DistanceKm float64         `json:"distance_km"`
}

// SearchResult is returned by GET /events/find. TotalEvents and TotalPages
// count the filtered set, not the enriched page.
type SearchResult struct {
	Events      []EnrichedEvent `json:"events"`
	Page        int             `json:"page"`
	PageSize    int             `json:"pageSize"`
	TotalEvents int             `json:"totalEvents"`
	TotalPages  int             `json:"totalPages"`
}
