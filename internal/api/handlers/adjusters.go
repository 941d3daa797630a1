package handlers

import (
	"net/http"

	"ratescope/internal/api/models"
	"ratescope/internal/billing"

	"github.com/gin-gonic/gin"
)

// AdjusterHandler handles adjustment-matcher requests.
type AdjusterHandler struct{}

// NewAdjusterHandler creates a new adjuster handler.
func NewAdjusterHandler() *AdjusterHandler {
	return &AdjusterHandler{}
}

// ListAdjusters handles GET /api/v1/adjusters. It reports the registered
// free-text matchers so the UI can explain where extracted adjustments
// come from.
func (h *AdjusterHandler) ListAdjusters(c *gin.Context) {
	matchers := billing.Matchers()
	adjusters := make([]models.AdjusterInfo, 0, len(matchers))
	for _, m := range matchers {
		adjusters = append(adjusters, models.AdjusterInfo{
			Name:        m.Name(),
			Description: m.Description(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"adjusters": adjusters})
}
