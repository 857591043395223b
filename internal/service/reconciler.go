package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/payouts-backend/internal/logger"
	"github.com/ignatzorin/payouts-backend/internal/models"
	"github.com/ignatzorin/payouts-backend/internal/repository"
	"github.com/ignatzorin/payouts-backend/internal/signature"
)

// defaultFailureReason подставляется, если событие payout.failed пришло
// без причины отказа: у отклонённой заявки причина должна быть всегда.
const defaultFailureReason = "payout failed at provider"

// WithdrawalStatusStore — часть хранилища заявок, нужная реконсилятору.
type WithdrawalStatusStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, payoutID, referenceID, failureReason *string) (int64, error)
}

// EventLedger — идемпотентный журнал событий провайдера.
type EventLedger interface {
	RecordIfNew(ctx context.Context, provider, eventID, eventType string, withdrawalID *uuid.UUID, payload json.RawMessage) (bool, error)
}

// StatusNotifier уведомляет владельца о применённом переходе статуса.
// Доставка best-effort: ошибка уведомления не влияет на обработку события.
type StatusNotifier interface {
	NotifyStatusChange(ownerID string, withdrawalID uuid.UUID, status string)
}

// Reconciler принимает подписанные события провайдера и применяет переходы
// статусов заявок. Единственная точка записи статуса: ни симулятор, ни API
// заявки напрямую не меняют.
type Reconciler struct {
	provider    string
	secret      string
	withdrawals WithdrawalStatusStore
	events      EventLedger
	notifier    StatusNotifier
}

func NewReconciler(provider, secret string, withdrawals WithdrawalStatusStore, events EventLedger) *Reconciler {
	return &Reconciler{
		provider:    provider,
		secret:      secret,
		withdrawals: withdrawals,
		events:      events,
	}
}

// SetNotifier подключает уведомления о переходах статусов (опционально).
func (r *Reconciler) SetNotifier(n StatusNotifier) {
	r.notifier = n
}

// Provider возвращает имя провайдера, от которого принимаются события.
func (r *Reconciler) Provider() string {
	return r.provider
}

// providerEvent — конверт события в формате провайдера выплат.
type providerEvent struct {
	EventID   string `json:"event_id"`
	Event     string `json:"event"`
	CreatedAt int64  `json:"created_at"`
	Payload   struct {
		Payout struct {
			Entity struct {
				ID            string  `json:"id"`
				ReferenceID   string  `json:"reference_id"`
				FailureReason *string `json:"failure_reason"`
			} `json:"entity"`
		} `json:"payout"`
	} `json:"payload"`
}

// HandleEvent обрабатывает одну доставку события: проверка подписи ->
// разбор -> разрешение заявки -> журнал (дедупликация) -> переход статуса.
// Подпись проверяется по сырым байтам до любого парсинга. Дубликат события
// и события по неизвестной заявке завершаются успешно без побочных эффектов.
func (r *Reconciler) HandleEvent(ctx context.Context, raw []byte, signatureHex string) error {
	if signatureHex == "" {
		return ErrMissingSignature
	}
	if !signature.Verify(r.secret, raw, signatureHex) {
		return ErrInvalidSignature
	}

	var event providerEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return ErrMalformedEvent
	}
	if event.EventID == "" || event.Event == "" {
		return ErrMalformedEvent
	}

	entity := event.Payload.Payout.Entity

	var withdrawalID *uuid.UUID
	if entity.ReferenceID != "" {
		parsed, err := uuid.Parse(entity.ReferenceID)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{
				"provider":     r.provider,
				"event_id":     event.EventID,
				"reference_id": entity.ReferenceID,
			}).Warn("reconciler: reference_id не является UUID, событие будет только записано в журнал")
		} else {
			withdrawalID = &parsed
		}
	}

	// Заявка разрешается до записи в журнал: событие по неизвестному id
	// журналируется без привязки (withdrawal_id = NULL), иначе вставка
	// упёрлась бы во внешний ключ и провайдер получил бы 500 вместо 200.
	var withdrawal *models.Withdrawal
	if withdrawalID != nil {
		w, err := r.withdrawals.GetByID(ctx, *withdrawalID)
		switch {
		case errors.Is(err, repository.ErrWithdrawalNotFound):
			logger.Log.WithFields(logrus.Fields{
				"withdrawal_id": *withdrawalID,
				"event_id":      event.EventID,
			}).Warn("reconciler: событие для неизвестной заявки, журналируется без привязки")
			withdrawalID = nil
		case err != nil:
			return err
		default:
			withdrawal = w
		}
	}

	inserted, err := r.events.RecordIfNew(ctx, r.provider, event.EventID, event.Event, withdrawalID, raw)
	if err != nil {
		return err
	}
	if !inserted {
		// Повторная доставка: подтверждаем успехом, иначе провайдер продолжит ретраи.
		logger.Log.WithFields(logrus.Fields{
			"provider": r.provider,
			"event_id": event.EventID,
		}).Debug("reconciler: дубликат события, побочных эффектов нет")
		return nil
	}

	if withdrawal == nil {
		return nil
	}

	return r.applyTransition(ctx, withdrawal, event.EventID, event.Event, entity.ID, entity.FailureReason)
}

// applyTransition применяет машину состояний:
// processing -> completed (payout.processed), processing -> rejected
// (payout.failed), processing -> processing (payout.processing, обновляется
// только payout id). Конечные статусы не меняются: UpdateStatus срабатывает
// только из processing, поэтому параллельное противоречащее событие не
// перезапишет уже применённый конечный статус.
func (r *Reconciler) applyTransition(ctx context.Context, w *models.Withdrawal, eventID, eventType, payoutID string, failureReason *string) error {
	if w.IsTerminal() {
		logger.Log.WithFields(logrus.Fields{
			"withdrawal_id": w.ID,
			"status":        w.Status,
			"event_type":    eventType,
		}).Warn("reconciler: заявка уже в конечном статусе, событие игнорируется")
		return nil
	}

	var pidPtr *string
	if payoutID != "" {
		pidPtr = &payoutID
	}
	refPtr := &eventID

	var status string
	var reason *string
	switch eventType {
	case models.EventTypePayoutProcessed:
		status = models.WithdrawalStatusCompleted
	case models.EventTypePayoutFailed:
		status = models.WithdrawalStatusRejected
		reason = failureReason
		if reason == nil || *reason == "" {
			def := defaultFailureReason
			reason = &def
		}
	case models.EventTypePayoutProcessing:
		// Переход-пустышка: статус не меняется, обновляется только payout id.
		status = models.WithdrawalStatusProcessing
	default:
		logger.Log.WithField("event_type", eventType).Info("reconciler: неизвестный тип события, статус не меняется")
		return nil
	}

	affected, err := r.withdrawals.UpdateStatus(ctx, w.ID, status, pidPtr, refPtr, reason)
	if err != nil {
		return err
	}
	if affected == 0 {
		// Конкурентное событие успело перевести заявку в конечный статус.
		logger.Log.WithFields(logrus.Fields{
			"withdrawal_id": w.ID,
			"event_type":    eventType,
		}).Warn("reconciler: переход не применён, заявка уже не в статусе processing")
		return nil
	}

	if r.notifier != nil && status != models.WithdrawalStatusProcessing {
		r.notifier.NotifyStatusChange(w.OwnerID, w.ID, status)
	}

	return nil
}
