package geo

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/haiminh/geoatlas/internal/domain/place"
	"github.com/haiminh/geoatlas/pkg/apperror"
)

var tracer = otel.Tracer("geo_usecase")

// LookupUseCase translates bounding-box and point queries into repository
// calls. It is stateless; result shaping belongs to the HTTP boundary.
type LookupUseCase struct {
	places     place.Repository
	maxResults int
}

func NewLookupUseCase(places place.Repository, maxResults int) *LookupUseCase {
	return &LookupUseCase{places: places, maxResults: maxResults}
}

func (uc *LookupUseCase) InBBox(ctx context.Context, box place.BBox) ([]place.Place, error) {

	ctx, span := tracer.Start(ctx, "InBBox")
	defer span.End()

	if err := box.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("invalid bounding box", err)
	}

	results, err := uc.places.FindInBBox(ctx, box, uc.maxResults)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result_count", len(results)))
	return results, nil
}

func (uc *LookupUseCase) Near(ctx context.Context, q place.NearQuery) ([]place.Place, error) {

	ctx, span := tracer.Start(ctx, "Near")
	defer span.End()

	if err := q.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("invalid point query", err)
	}
	if q.Limit <= 0 || q.Limit > uc.maxResults {
		q.Limit = uc.maxResults
	}

	results, err := uc.places.FindNear(ctx, q)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result_count", len(results)))
	return results, nil
}
