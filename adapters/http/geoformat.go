package http

import (
	"github.com/haiminh/geoatlas/internal/domain/place"
	"github.com/haiminh/geoatlas/pkg/apperror"
)

// RecordFormatter shapes place rows into one of the supported output
// payloads. The caller picks the variant; the lookup code never sees it.
type RecordFormatter interface {
	AddRecord(p place.Place)
	Finalize() any
}

// NewRecordFormatter returns the formatter for a ?format= value. An empty
// value means GeoJSON.
func NewRecordFormatter(format string) (RecordFormatter, error) {
	switch format {
	case "", "geojson":
		return &geoJSONFormatter{features: make([]geoJSONFeature, 0)}, nil
	case "array":
		return &arrayFormatter{rows: make([][]any, 0)}, nil
	default:
		return nil, apperror.NewInvalidInput("unknown format: "+format, nil)
	}
}

type geoJSONGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type geoJSONFeature struct {
	Type       string          `json:"type"`
	Geometry   geoJSONGeometry `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

type geoJSONFormatter struct {
	features []geoJSONFeature
}

func (f *geoJSONFormatter) AddRecord(p place.Place) {
	f.features = append(f.features, geoJSONFeature{
		Type: "Feature",
		Geometry: geoJSONGeometry{
			Type:        "Point",
			Coordinates: [2]float64{p.Lon, p.Lat},
		},
		Properties: map[string]any{
			"id":    p.ID,
			"name":  p.Name,
			"class": p.Class,
		},
	})
}

func (f *geoJSONFormatter) Finalize() any {
	return geoJSONCollection{Type: "FeatureCollection", Features: f.features}
}

// arrayFormatter emits the compact form: one [id, name, class, lon, lat]
// row per place.
type arrayFormatter struct {
	rows [][]any
}

func (f *arrayFormatter) AddRecord(p place.Place) {
	f.rows = append(f.rows, []any{p.ID, p.Name, p.Class, p.Lon, p.Lat})
}

func (f *arrayFormatter) Finalize() any {
	return f.rows
}
