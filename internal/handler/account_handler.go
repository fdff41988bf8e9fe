package handler

import (
	"errors"
	"net/http"

	"growfi/internal/domain"
	"growfi/internal/middleware"
	"growfi/internal/repository"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	store repository.Store
}

func NewAccountHandler(store repository.Store) *AccountHandler {
	return &AccountHandler{store: store}
}

func (h *AccountHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	account, err := h.store.Accounts().GetByUserID(userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account"})
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) ListTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	txs, err := h.store.Transactions().ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
