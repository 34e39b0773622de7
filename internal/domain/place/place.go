package place

import (
	"context"
	"fmt"
)

// Place is one row of the read-only geographic dataset.
type Place struct {
	ID    int64
	Name  string
	Class string
	Lon   float64
	Lat   float64
}

// BBox is a WGS84 bounding box, west/south/east/north.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

func (b BBox) Validate() error {
	if b.West < -180 || b.East > 180 || b.South < -90 || b.North > 90 {
		return fmt.Errorf("bbox out of range")
	}
	if b.West >= b.East || b.South >= b.North {
		return fmt.Errorf("bbox edges out of order")
	}
	return nil
}

// NearQuery asks for places around a point, nearest first.
type NearQuery struct {
	Lon    float64
	Lat    float64
	Radius float64 // meters; 0 means no radius cap
	Limit  int
}

func (q NearQuery) Validate() error {
	if q.Lon < -180 || q.Lon > 180 || q.Lat < -90 || q.Lat > 90 {
		return fmt.Errorf("point out of range")
	}
	if q.Radius < 0 {
		return fmt.Errorf("negative radius")
	}
	return nil
}

type Repository interface {
	FindInBBox(ctx context.Context, box BBox, limit int) ([]Place, error)
	FindNear(ctx context.Context, q NearQuery) ([]Place, error)
}
