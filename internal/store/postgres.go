package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajnandniparmar/Event-Finder/internal/apperrors"
	"github.com/rajnandniparmar/Event-Finder/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore keeps events in a Postgres table, ordered by insertion id.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// Ping is used by the readiness endpoint.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// List returns every event in insertion order.
func (p *PostgresStore) List(ctx context.Context) ([]models.Event, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT event_name, city_name, date, time, latitude, longitude
		FROM events
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Event, error) {
		var (
			e        models.Event
			lat, lon float64
		)
		if err := row.Scan(&e.EventName, &e.CityName, &e.Date, &e.Time, &lat, &lon); err != nil {
			return models.Event{}, err
		}
		e.Latitude = models.Coordinate(lat)
		e.Longitude = models.Coordinate(lon)
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}

// Append inserts e as the newest event.
func (p *PostgresStore) Append(ctx context.Context, e models.Event) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO events(event_name, city_name, date, time, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, e.EventName, e.CityName, e.Date, e.Time, float64(e.Latitude), float64(e.Longitude))
	if err != nil {
		return apperrors.NewPersistenceError("insert event", err)
	}
	return nil
}
