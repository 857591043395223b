package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// RecordIfNew атомарно вставляет запись журнала событий, если пара
// (provider, event_id) ещё не встречалась. Возвращает true при вставке
// и false при повторной доставке. Дубликат — штатный случай, не ошибка:
// провайдер перестаёт ретраить только после успешного ответа.
func (r *EventRepository) RecordIfNew(ctx context.Context, provider, eventID, eventType string, withdrawalID *uuid.UUID, payload json.RawMessage) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO withdrawal_events (id, provider, event_id, event_type, withdrawal_id, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider, event_id) DO NOTHING
	`, uuid.New(), provider, eventID, eventType, withdrawalID, payload)
	if err != nil {
		return false, fmt.Errorf("запись события %s/%s: %w", provider, eventID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
