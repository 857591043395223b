package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/payouts-backend/internal/models"
)

var ErrWithdrawalNotFound = errors.New("заявка на вывод не найдена")

const (
	minListLimit = 1
	maxListLimit = 100
)

type WithdrawalRepository struct {
	db *sqlx.DB
}

func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create вставляет новую заявку в статусе processing.
func (r *WithdrawalRepository) Create(ctx context.Context, w *models.Withdrawal) (*models.Withdrawal, error) {
	var created models.Withdrawal
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO withdrawals (
			id, owner_id, amount, currency, method, account_holder_name,
			upi_id, bank_account_number, ifsc, destination_summary, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING *
	`, w.ID, w.OwnerID, w.Amount, w.Currency, w.Method, w.AccountHolderName,
		w.UPIID, w.BankAccountNumber, w.IFSC, w.DestinationSummary, models.WithdrawalStatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("создание заявки на вывод: %w", err)
	}
	return &created, nil
}

func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.GetContext(ctx, &w, `SELECT * FROM withdrawals WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWithdrawalNotFound
	}
	return &w, err
}

// ListByOwner возвращает заявки владельца, новые первыми. Лимит зажимается в [1,100].
func (r *WithdrawalRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.Withdrawal, error) {
	if limit < minListLimit {
		limit = minListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var withdrawals []models.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2
	`, ownerID, limit)
	return withdrawals, err
}

// UpdateStatus записывает статус, корреляционные id провайдера и причину
// отказа, обновляя updated_at. Переход применяется только из статуса
// processing: конечные статусы неизменяемы даже при гонке двух событий.
// Возвращает количество затронутых строк: 0 означает, что заявка не найдена
// или уже в конечном статусе — на этом уровне это не ошибка, решение
// остаётся за вызывающим.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, payoutID, referenceID, failureReason *string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE withdrawals
		SET status = $2,
		    provider_payout_id = COALESCE($3, provider_payout_id),
		    provider_reference_id = COALESCE($4, provider_reference_id),
		    failure_reason = $5,
		    updated_at = $6
		WHERE id = $1 AND status = 'processing'
	`, id, status, payoutID, referenceID, failureReason, time.Now())
	if err != nil {
		return 0, fmt.Errorf("обновление статуса заявки %s: %w", id, err)
	}
	return res.RowsAffected()
}
