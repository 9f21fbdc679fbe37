package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"snow-route-pricing/internal/platform/obs"
	"snow-route-pricing/internal/ports"
)

// SQLTravelTimeCache is a Postgres-backed ports.TravelTimeCache.
type SQLTravelTimeCache struct {
	DB *sql.DB
}

func NewSQLTravelTimeCache(db *sql.DB) *SQLTravelTimeCache {
	return &SQLTravelTimeCache{DB: db}
}

// GetMany fetches cached durations for the given legs in one query.
func (s *SQLTravelTimeCache) GetMany(
	ctx context.Context,
	legs []ports.Leg,
) (_ map[ports.Leg]time.Duration, err error) {
	defer obs.Time(ctx, "traveltime.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("travel time cache: db is nil")
	}

	uniq := uniqueLegs(legs)
	if len(uniq) == 0 {
		return map[ports.Leg]time.Duration{}, nil
	}

	origins := make([]string, len(uniq))
	destinations := make([]string, len(uniq))
	for i, l := range uniq {
		origins[i], destinations[i] = l.Origin, l.Destination
	}

	q := `
	SELECT c.origin, c.destination, c.duration_seconds
	FROM travel_time_cache c
	JOIN unnest($1::text[], $2::text[]) AS k(origin, destination)
		ON c.origin = k.origin AND c.destination = k.destination;
	`

	rows, err := s.DB.QueryContext(ctx, q, origins, destinations)
	if err != nil {
		return nil, fmt.Errorf("get travel time cache: query travel_time_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[ports.Leg]time.Duration, len(uniq))
	for rows.Next() {
		var l ports.Leg
		var seconds float64
		if err := rows.Scan(&l.Origin, &l.Destination, &seconds); err != nil {
			return nil, fmt.Errorf("get travel time cache: scan rows: %w", err)
		}
		out[l] = time.Duration(seconds * float64(time.Second))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get travel time cache: row iteration: %w", err)
	}

	return out, nil
}

// PutMany upserts durations in a single transaction.
func (s *SQLTravelTimeCache) PutMany(ctx context.Context, results map[ports.Leg]time.Duration) (err error) {
	defer obs.Time(ctx, "traveltime.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("travel time cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	return upsertAll(ctx, s.DB, "travel_time_cache", upsertTravelTimeSQL, func(stmt *sql.Stmt) error {
		for l, d := range results {
			if l.Origin == "" || l.Destination == "" {
				return fmt.Errorf("empty leg %q -> %q", l.Origin, l.Destination)
			}
			if d < 0 {
				return fmt.Errorf("negative duration for %q -> %q", l.Origin, l.Destination)
			}
			if _, err := stmt.ExecContext(ctx, l.Origin, l.Destination, d.Seconds()); err != nil {
				return fmt.Errorf("%q -> %q: %w", l.Origin, l.Destination, err)
			}
		}
		return nil
	})
}

const upsertTravelTimeSQL = `
INSERT INTO travel_time_cache (origin, destination, duration_seconds, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (origin, destination) DO UPDATE
SET duration_seconds = EXCLUDED.duration_seconds, updated_at = EXCLUDED.updated_at`
