package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajnandniparmar/Event-Finder/internal/apperrors"
	"github.com/rajnandniparmar/Event-Finder/internal/models"
)

func writeEvents(t *testing.T, path string, raw string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
}

func TestNewFileStore_LoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeEvents(t, path, `[
  {"event_name":"Expo","city_name":"Austin","date":"2024-03-01","time":"10:00","latitude":30.26,"longitude":-97.74},
  {"event_name":"Gala","city_name":"Dallas","date":"2024-01-15","time":"19:00","latitude":"32.77","longitude":"-96.79"}
]`)

	s, err := NewFileStore(path)
	require.NoError(t, err)

	events, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Expo", events[0].EventName)
	assert.Equal(t, models.Coordinate(32.77), events[1].Latitude)
}

func TestNewFileStore_MissingFileStartsEmpty(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	events, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestNewFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeEvents(t, path, `{"not":"an array"}`)

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestAppend_RewritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	writeEvents(t, path, `[{"event_name":"A","city_name":"X","date":"2024-01-01","time":"t","latitude":1,"longitude":2}]`)

	s, err := NewFileStore(path)
	require.NoError(t, err)

	ev := models.Event{EventName: "B", CityName: "Y", Date: "2024-02-02", Time: "noon", Latitude: 3, Longitude: 4}
	require.NoError(t, s.Append(context.Background(), ev))
	// duplicates are allowed
	require.NoError(t, s.Append(context.Background(), ev))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk []models.Event
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Len(t, onDisk, 3)
	assert.Equal(t, "A", onDisk[0].EventName)
	assert.Equal(t, ev, onDisk[1])
	assert.Equal(t, ev, onDisk[2])

	_, err = os.Stat(path + tmpSuffix)
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	events, _ := reloaded.List(context.Background())
	assert.Len(t, events, 3)
}

func TestAppend_PersistFailureKeepsInMemoryEvent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	s, err := NewFileStore(filepath.Join(dir, "data.json"))
	require.NoError(t, err)

	err = s.Append(context.Background(), models.Event{EventName: "Orphan"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypePersistence))

	events, _ := s.List(context.Background())
	require.Len(t, events, 1)
	assert.Equal(t, "Orphan", events[0].EventName)

	assert.Error(t, s.Ping(context.Background()))
}

func TestList_ReturnsSnapshot(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), models.Event{EventName: "A"}))

	events, _ := s.List(context.Background())
	events[0].EventName = "mutated"

	again, _ := s.List(context.Background())
	assert.Equal(t, "A", again[0].EventName)
}

func TestAppend_ConcurrentWithList(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append(context.Background(), models.Event{EventName: "e"}))
		}()
		go func() {
			defer wg.Done()
			_, err := s.List(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	events, _ := s.List(context.Background())
	assert.Len(t, events, 20)
}
