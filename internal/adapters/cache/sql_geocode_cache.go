package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/platform/obs"
)

// SQLGeocodeCache is a Postgres-backed ports.GeocodeCache.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueStrings(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, selectGeocodesSQL, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var (
			addr string
			c    domain.Coordinates
		)
		if err := rows.Scan(&addr, &c.Lon, &c.Lat); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan: %w", err)
		}
		// Out-of-range rows count as misses so the backend re-geocodes them.
		if c.Valid() {
			out[addr] = c
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: rows: %w", err)
	}

	return out, nil
}

// PutMany upserts address coordinates in a single transaction.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	return upsertAll(ctx, s.DB, "geocode_cache", upsertGeocodeSQL, func(stmt *sql.Stmt) error {
		for addr, c := range results {
			switch {
			case addr == "":
				return errors.New("empty address key")
			case !c.Valid():
				return fmt.Errorf("%q: coordinates out of range: %+v", addr, c)
			}
			if _, err := stmt.ExecContext(ctx, addr, c.Lon, c.Lat); err != nil {
				return fmt.Errorf("%q: %w", addr, err)
			}
		}
		return nil
	})
}

const selectGeocodesSQL = `
SELECT address, lon, lat FROM geocode_cache WHERE address = ANY($1::text[])`

const upsertGeocodeSQL = `
INSERT INTO geocode_cache (address, lon, lat, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (address) DO UPDATE
SET lon = EXCLUDED.lon, lat = EXCLUDED.lat, updated_at = EXCLUDED.updated_at`
