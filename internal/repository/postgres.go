package repository

import (
	"context"
	"fmt"

	"address-search/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultResultLimit caps the rows returned by a region search.
const DefaultResultLimit = 20

// Schema creates the placemarks table and its indexes.
const Schema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS placemarks (
		id BIGSERIAL PRIMARY KEY,
		name TEXT,
		country TEXT,
		administrative_area TEXT,
		sub_administrative_area TEXT,
		locality TEXT,
		sub_locality TEXT,
		thoroughfare TEXT,
		sub_thoroughfare TEXT,
		search_tsvector TSVECTOR GENERATED ALWAYS AS (
			to_tsvector('simple',
				coalesce(name, '') || ' ' ||
				coalesce(country, '') || ' ' ||
				coalesce(administrative_area, '') || ' ' ||
				coalesce(sub_administrative_area, '') || ' ' ||
				coalesce(locality, '') || ' ' ||
				coalesce(sub_locality, '') || ' ' ||
				coalesce(thoroughfare, '') || ' ' ||
				coalesce(sub_thoroughfare, ''))
		) STORED,
		geom GEOGRAPHY(POINT, 4326)
	);
	CREATE INDEX IF NOT EXISTS placemarks_geom_idx ON placemarks USING GIST (geom);
	CREATE INDEX IF NOT EXISTS placemarks_search_tsvector_idx ON placemarks USING GIN (search_tsvector);
`

// Execer is satisfied by *pgx.Conn and *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the placemarks table if it does not exist
func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// Repository implements the regional text search over PostgreSQL/PostGIS
type Repository struct {
	db    *pgxpool.Pool
	limit int
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool, limit int) *Repository {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	return &Repository{db: db, limit: limit}
}

// SearchPlacemarksInRegion performs a full-text search on the placemarks table restricted to the region's bounding box
func (r *Repository) SearchPlacemarksInRegion(ctx context.Context, query string, region models.Region) ([]models.Placemark, error) {
	if query == "" {
		return nil, fmt.Errorf("repository: %w", models.ErrEmptyQuery)
	}

	sql := `
		SELECT
			coalesce(name, ''),
			coalesce(country, ''),
			coalesce(administrative_area, ''),
			coalesce(sub_administrative_area, ''),
			coalesce(locality, ''),
			coalesce(sub_locality, ''),
			coalesce(thoroughfare, ''),
			coalesce(sub_thoroughfare, ''),
			ST_Y(geom::geometry) as latitude,
			ST_X(geom::geometry) as longitude
		FROM placemarks
		WHERE search_tsvector @@ plainto_tsquery('simple', $1)
		  AND ST_Intersects(geom, ST_MakeEnvelope($2, $3, $4, $5, 4326)::geography)
		ORDER BY ts_rank(search_tsvector, plainto_tsquery('simple', $1)) DESC, id
		LIMIT $6
	`

	b := region.Bounds()
	rows, err := r.db.Query(ctx, sql, query, b.MinLon, b.MinLat, b.MaxLon, b.MaxLat, r.limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute search query: %w", err)
	}
	defer rows.Close()

	placemarks := []models.Placemark{}
	for rows.Next() {
		var p models.Placemark
		err := rows.Scan(
			&p.Name,
			&p.Country,
			&p.AdministrativeArea,
			&p.SubAdministrativeArea,
			&p.Locality,
			&p.SubLocality,
			&p.Thoroughfare,
			&p.SubThoroughfare,
			&p.Latitude,
			&p.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan placemark: %w", err)
		}
		placemarks = append(placemarks, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return placemarks, nil
}
