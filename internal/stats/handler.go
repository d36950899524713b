package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dishlog/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get handles GET /api/stats
func (h *Handler) Get(c *gin.Context) {
	overview, err := h.service.GetOverview(c.Request.Context())
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
