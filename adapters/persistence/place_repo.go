package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/haiminh/geoatlas/internal/domain/place"
	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/logger"
)

type postgresPlaceRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresPlaceRepo(db DB, logger logger.Logger) place.Repository {
	return &postgresPlaceRepo{db: db, logger: logger}
}

var psqlPlace = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *postgresPlaceRepo) queryPlaces(ctx context.Context, builder sq.SelectBuilder) ([]place.Place, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build place query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to execute place query", err)
	}
	defer rows.Close()

	results := make([]place.Place, 0)
	for rows.Next() {
		var p place.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Class, &p.Lon, &p.Lat); err != nil {
			return nil, apperror.NewInternal("failed to scan place row", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating place rows", err)
	}
	return results, nil
}

func (r *postgresPlaceRepo) FindInBBox(ctx context.Context, box place.BBox, limit int) ([]place.Place, error) {
	builder := psqlPlace.
		Select("id", "name", "class", "lon", "lat").
		From("places").
		Where(sq.Expr(
			"geom && ST_MakeEnvelope(?, ?, ?, ?, 4326)",
			box.West, box.South, box.East, box.North,
		)).
		OrderBy("id").
		Limit(uint64(limit))

	return r.queryPlaces(ctx, builder)
}

func (r *postgresPlaceRepo) FindNear(ctx context.Context, q place.NearQuery) ([]place.Place, error) {
	builder := psqlPlace.
		Select("id", "name", "class", "lon", "lat").
		From("places").
		OrderByClause(
			"geom <-> ST_SetSRID(ST_MakePoint(?, ?), 4326)",
			q.Lon, q.Lat,
		).
		Limit(uint64(q.Limit))

	if q.Radius > 0 {
		builder = builder.Where(sq.Expr(
			"ST_DWithin(geom::geography, ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography, ?)",
			q.Lon, q.Lat, q.Radius,
		))
	}

	return r.queryPlaces(ctx, builder)
}
