package http

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/haiminh/geoatlas/internal/application/usecase/geo"
	"github.com/haiminh/geoatlas/internal/domain/place"
	"github.com/haiminh/geoatlas/pkg/apperror"
)

type GeoHandler struct {
	lookupUseCase *geo.LookupUseCase
}

func NewGeoHandler(lookupUC *geo.LookupUseCase) *GeoHandler {
	return &GeoHandler{lookupUseCase: lookupUC}
}

func parseBBox(raw string) (place.BBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return place.BBox{}, apperror.NewInvalidInput("bbox must be west,south,east,north", nil)
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return place.BBox{}, apperror.NewInvalidInput("bbox coordinate is not a number", err)
		}
		vals[i] = v
	}
	return place.BBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}, nil
}

// Places handles GET /places?bbox=w,s,e,n&format=geojson|array.
func (h *GeoHandler) Places(c *gin.Context) {
	box, err := parseBBox(c.Query("bbox"))
	if err != nil {
		c.Error(err)
		return
	}

	formatter, err := NewRecordFormatter(c.Query("format"))
	if err != nil {
		c.Error(err)
		return
	}

	results, err := h.lookupUseCase.InBBox(c.Request.Context(), box)
	if err != nil {
		c.Error(err)
		return
	}

	for _, p := range results {
		formatter.AddRecord(p)
	}
	respondJSONWithETag(c, formatter.Finalize())
}

// Near handles GET /places/near?lon=&lat=&radius=&limit=&format=.
func (h *GeoHandler) Near(c *gin.Context) {
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("lon is required and must be a number", err))
		return
	}
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("lat is required and must be a number", err))
		return
	}

	q := place.NearQuery{Lon: lon, Lat: lat}
	if raw := c.Query("radius"); raw != "" {
		if q.Radius, err = strconv.ParseFloat(raw, 64); err != nil {
			c.Error(apperror.NewInvalidInput("radius must be a number", err))
			return
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if q.Limit, err = strconv.Atoi(raw); err != nil {
			c.Error(apperror.NewInvalidInput("limit must be an integer", err))
			return
		}
	}

	formatter, err := NewRecordFormatter(c.Query("format"))
	if err != nil {
		c.Error(err)
		return
	}

	results, err := h.lookupUseCase.Near(c.Request.Context(), q)
	if err != nil {
		c.Error(err)
		return
	}

	for _, p := range results {
		formatter.AddRecord(p)
	}
	respondJSONWithETag(c, formatter.Finalize())
}
