package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Типы событий провайдера выплат.
const (
	EventTypePayoutProcessed  = "payout.processed"
	EventTypePayoutFailed     = "payout.failed"
	EventTypePayoutProcessing = "payout.processing"
)

// ProviderEvent — запись журнала полученных событий провайдера.
// Пара (provider, event_id) уникальна и служит ключом идемпотентности:
// повторная доставка того же события не создаёт вторую запись.
type ProviderEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	Provider     string          `db:"provider" json:"provider"`
	EventID      string          `db:"event_id" json:"event_id"`
	EventType    string          `db:"event_type" json:"event_type"`
	WithdrawalID *uuid.UUID      `db:"withdrawal_id" json:"withdrawal_id,omitempty"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	ReceivedAt   time.Time       `db:"received_at" json:"received_at"`
}
