package handler

import (
	"net/http"

	"growfi/internal/repository"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	store repository.Store
}

func NewPlanHandler(store repository.Store) *PlanHandler {
	return &PlanHandler{store: store}
}

func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.store.Plans().ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}
