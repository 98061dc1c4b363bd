package handlers

import (
	"net/http"

	"quantmind/models"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	store *models.AuditStore
}

func NewAuditHandler(store *models.AuditStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// HandleRecent lists the latest served predictions, newest first.
func (h *AuditHandler) HandleRecent(c *gin.Context) {
	limit, err := parseIntParam(c, "limit", 50)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := h.store.Recent(c.Request.Context(), c.Query("ticker"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": rows})
}
