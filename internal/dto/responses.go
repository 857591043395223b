package dto

import (
	"time"

	"github.com/ignatzorin/payouts-backend/internal/models"
)

// ErrorResponse — стандартный формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateWithdrawalResponse — ответ на создание заявки.
// Статус здесь всегда processing: исход разрешается асинхронно.
type CreateWithdrawalResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WithdrawalView — клиентская проекция заявки: сырой номер счёта наружу
// не отдаётся, только маскированное представление.
type WithdrawalView struct {
	ID                 string     `json:"id"`
	Amount             float64    `json:"amount"`
	Currency           string     `json:"currency"`
	Method             string     `json:"method"`
	AccountHolderName  string     `json:"accountHolderName"`
	DestinationSummary string     `json:"destinationSummary"`
	Status             string     `json:"status"`
	ProviderPayoutID   *string    `json:"providerPayoutId"`
	FailureReason      *string    `json:"failureReason"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ListWithdrawalsResponse — ответ на листинг заявок.
type ListWithdrawalsResponse struct {
	Withdrawals []WithdrawalView `json:"withdrawals"`
}

// NewWithdrawalView строит проекцию из модели.
func NewWithdrawalView(w *models.Withdrawal) WithdrawalView {
	return WithdrawalView{
		ID:                 w.ID.String(),
		Amount:             w.Amount,
		Currency:           w.Currency,
		Method:             w.Method,
		AccountHolderName:  w.AccountHolderName,
		DestinationSummary: w.DestinationSummary,
		Status:             w.Status,
		ProviderPayoutID:   w.ProviderPayoutID,
		FailureReason:      w.FailureReason,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}
