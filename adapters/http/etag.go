package http

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haiminh/geoatlas/pkg/apperror"
)

// respondJSONWithETag writes payload with a weak ETag over its encoded
// bytes and answers If-None-Match with 304. Geo lookups are read-only, so
// identical queries produce identical tags.
func respondJSONWithETag(c *gin.Context, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		c.Error(apperror.NewInternal("failed to encode response", err))
		return
	}

	sum := sha256.Sum256(body)
	etag := `W/"` + hex.EncodeToString(sum[:16]) + `"`
	c.Header("ETag", etag)

	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
