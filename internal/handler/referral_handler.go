package handler

import (
	"net/http"

	"growfi/internal/middleware"
	"growfi/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ReferralHandler struct {
	store repository.Store
}

func NewReferralHandler(store repository.Store) *ReferralHandler {
	return &ReferralHandler{store: store}
}

// Summary returns the caller's referral code and commissions earned.
func (h *ReferralHandler) Summary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.store.Users().GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	limit, offset := pagination(c)
	commissions, err := h.store.Commissions().ListByReferrerID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list commissions"})
		return
	}
	total := decimal.Zero
	for _, cm := range commissions {
		total = total.Add(cm.Amount)
	}
	c.JSON(http.StatusOK, gin.H{
		"referral_code": u.ReferralCode,
		"commissions":   commissions,
		"total_earned":  total,
	})
}
