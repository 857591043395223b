package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusRejected   = "rejected"
)

const (
	WithdrawalMethodUPI  = "upi"
	WithdrawalMethodBank = "bank"
)

// WithdrawalCurrency — единственная поддерживаемая валюта выплат.
const WithdrawalCurrency = "INR"

// Withdrawal — заявка на вывод средств. Создаётся в статусе processing,
// меняет статус только через обработку событий провайдера.
type Withdrawal struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	OwnerID             string     `db:"owner_id" json:"owner_id"`
	Amount              float64    `db:"amount" json:"amount"`
	Currency            string     `db:"currency" json:"currency"`
	Method              string     `db:"method" json:"method"`
	AccountHolderName   string     `db:"account_holder_name" json:"account_holder_name"`
	UPIID               *string    `db:"upi_id" json:"upi_id,omitempty"`
	BankAccountNumber   *string    `db:"bank_account_number" json:"-"`
	IFSC                *string    `db:"ifsc" json:"ifsc,omitempty"`
	DestinationSummary  string     `db:"destination_summary" json:"destination_summary"`
	Status              string     `db:"status" json:"status"`
	ProviderReferenceID *string    `db:"provider_reference_id" json:"provider_reference_id,omitempty"`
	ProviderPayoutID    *string    `db:"provider_payout_id" json:"provider_payout_id,omitempty"`
	FailureReason       *string    `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// IsTerminal сообщает, достигла ли заявка конечного статуса.
// Из конечного статуса переходов больше нет.
func (w *Withdrawal) IsTerminal() bool {
	return w.Status == WithdrawalStatusCompleted || w.Status == WithdrawalStatusRejected
}
