package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/payouts-backend/internal/dto"
	"github.com/ignatzorin/payouts-backend/internal/http/handlers/common"
	"github.com/ignatzorin/payouts-backend/internal/service"
)

type WithdrawalHandler struct {
	svc *service.WithdrawalService
}

func NewWithdrawalHandler(s *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{svc: s}
}

// CreateWithdrawal POST /api/withdrawals
func (h *WithdrawalHandler) CreateWithdrawal(c *gin.Context) {
	ownerID, err := common.CurrentSubject(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	w, err := h.svc.CreateWithdrawal(c.Request.Context(), ownerID, service.WithdrawalInput{
		Amount:            req.Amount,
		Method:            req.Method,
		AccountHolderName: req.AccountHolderName,
		UPIID:             req.UPIID,
		BankAccountNumber: req.BankAccountNumber,
		IFSC:              req.IFSC,
		SimulateOutcome:   req.SimulateOutcome,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateWithdrawalResponse{
		ID:        w.ID.String(),
		Status:    w.Status,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	})
}

// ListWithdrawals GET /api/withdrawals?limit=N
func (h *WithdrawalHandler) ListWithdrawals(c *gin.Context) {
	ownerID, err := common.CurrentSubject(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	withdrawals, err := h.svc.ListWithdrawals(c.Request.Context(), ownerID, common.ListLimit(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	views := make([]dto.WithdrawalView, 0, len(withdrawals))
	for i := range withdrawals {
		views = append(views, dto.NewWithdrawalView(&withdrawals[i]))
	}

	c.JSON(http.StatusOK, dto.ListWithdrawalsResponse{Withdrawals: views})
}

// SimulateOutcome POST /api/withdrawals/:id/simulate?outcome=success|failure|random
func (h *WithdrawalHandler) SimulateOutcome(c *gin.Context) {
	// UUID уже проверен middleware.
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondBadRequest(c, "невалидный идентификатор заявки")
		return
	}

	if err := h.svc.SimulateOutcome(c.Request.Context(), id, c.Query("outcome")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
