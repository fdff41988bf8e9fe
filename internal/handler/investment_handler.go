package handler

import (
	"errors"
	"net/http"
	"strconv"

	"growfi/internal/domain"
	"growfi/internal/middleware"
	"growfi/internal/repository"
	"growfi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type InvestmentHandler struct {
	ledger      *service.LedgerService
	commissions *service.CommissionService
	store       repository.Store
	log         *logrus.Logger
}

func NewInvestmentHandler(ledger *service.LedgerService, commissions *service.CommissionService, store repository.Store, log *logrus.Logger) *InvestmentHandler {
	return &InvestmentHandler{ledger: ledger, commissions: commissions, store: store, log: log}
}

type CreateInvestmentRequest struct {
	PlanID uint   `json:"plan_id" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

func (h *InvestmentHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	inv, err := h.ledger.Open(c.Request.Context(), userID, req.PlanID, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create investment"})
		}
		return
	}

	// The referrer's cut rides on investment creation; its failure never
	// unwinds the contract.
	if err := h.commissions.OnInvestment(c.Request.Context(), inv); err != nil {
		h.log.WithError(err).WithField("investment_id", inv.ID).Error("investment commission failed")
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvestmentHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	invs, err := h.store.Investments().ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list investments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"investments": invs})
}

func (h *InvestmentHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	inv, err := h.store.Investments().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "investment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load investment"})
		return
	}
	if inv.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "investment not found"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvestmentHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	inv, err := h.store.Investments().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "investment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load investment"})
		return
	}
	if inv.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "investment not found"})
		return
	}
	cancelled, err := h.ledger.Cancel(c.Request.Context(), inv.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInvestmentNotActive) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel investment"})
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

func pagination(c *gin.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit"))
	if limit < 1 || limit > 50 {
		limit = 25
	}
	return limit, (page - 1) * limit
}
