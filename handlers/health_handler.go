package handlers

import (
	"net/http"

	"github.com/formgate/formgate-backend/types"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Health reports process liveness. There are no external dependencies to
// probe: storage is in-memory and the mail transport is checked at startup.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}
