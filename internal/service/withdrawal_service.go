package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/payouts-backend/internal/models"
)

// Запрошенный исход симуляции выплаты.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeRandom  = "random"
)

// WithdrawalInput — входные данные заявки на вывод.
type WithdrawalInput struct {
	Amount            float64
	Method            string
	AccountHolderName string
	UPIID             string
	BankAccountNumber string
	IFSC              string
	SimulateOutcome   string
}

// WithdrawalRepository — хранилище заявок на вывод.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *models.Withdrawal) (*models.Withdrawal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.Withdrawal, error)
}

// OutcomeScheduler ставит в очередь асинхронную симуляцию исхода.
type OutcomeScheduler interface {
	ScheduleOutcome(withdrawalID uuid.UUID, outcome string)
}

type WithdrawalService struct {
	repo      WithdrawalRepository
	scheduler OutcomeScheduler
}

func NewWithdrawalService(repo WithdrawalRepository, scheduler OutcomeScheduler) *WithdrawalService {
	return &WithdrawalService{repo: repo, scheduler: scheduler}
}

// CreateWithdrawal валидирует входные данные, сохраняет заявку в статусе
// processing и ставит симуляцию исхода в очередь. Ответ возвращается до
// разрешения исхода, поэтому статус в ответе всегда processing.
func (s *WithdrawalService) CreateWithdrawal(ctx context.Context, ownerID string, input WithdrawalInput) (*models.Withdrawal, error) {
	input.AccountHolderName = strings.TrimSpace(input.AccountHolderName)
	input.UPIID = strings.TrimSpace(input.UPIID)
	input.BankAccountNumber = strings.TrimSpace(input.BankAccountNumber)
	input.IFSC = strings.ToUpper(strings.TrimSpace(input.IFSC))
	input.Method = strings.TrimSpace(input.Method)

	outcome := input.SimulateOutcome
	if outcome == "" {
		outcome = OutcomeRandom
	}

	// Вся валидация выполняется до записи: при ошибке частичная запись не создаётся.
	if err := validateInput(input, outcome); err != nil {
		return nil, err
	}

	w := &models.Withdrawal{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		Amount:             input.Amount,
		Currency:           models.WithdrawalCurrency,
		Method:             input.Method,
		AccountHolderName:  input.AccountHolderName,
		DestinationSummary: destinationSummary(input),
	}
	switch input.Method {
	case models.WithdrawalMethodUPI:
		w.UPIID = &input.UPIID
	case models.WithdrawalMethodBank:
		w.BankAccountNumber = &input.BankAccountNumber
		w.IFSC = &input.IFSC
	}

	created, err := s.repo.Create(ctx, w)
	if err != nil {
		return nil, err
	}

	s.scheduler.ScheduleOutcome(created.ID, outcome)

	return created, nil
}

// ListWithdrawals возвращает заявки владельца, новые первыми.
func (s *WithdrawalService) ListWithdrawals(ctx context.Context, ownerID string, limit int) ([]models.Withdrawal, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit)
}

// SimulateOutcome повторно запускает симуляцию для существующей заявки.
// Служебная ручка для демонстрации и тестов.
func (s *WithdrawalService) SimulateOutcome(ctx context.Context, id uuid.UUID, outcome string) error {
	if outcome == "" {
		outcome = OutcomeRandom
	}
	if !validOutcome(outcome) {
		return fmt.Errorf("%w: недопустимый исход %q", ErrValidation, outcome)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	s.scheduler.ScheduleOutcome(id, outcome)
	return nil
}

func validateInput(input WithdrawalInput, outcome string) error {
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount <= 0 {
		return fmt.Errorf("%w: сумма должна быть положительным числом", ErrValidation)
	}
	if !validOutcome(outcome) {
		return fmt.Errorf("%w: недопустимый исход %q", ErrValidation, outcome)
	}

	switch input.Method {
	case models.WithdrawalMethodUPI:
		if input.UPIID == "" {
			return fmt.Errorf("%w: для метода upi обязателен upiId", ErrValidation)
		}
	case models.WithdrawalMethodBank:
		if input.BankAccountNumber == "" {
			return fmt.Errorf("%w: для метода bank обязателен номер счёта", ErrValidation)
		}
		if input.IFSC == "" {
			return fmt.Errorf("%w: для метода bank обязателен IFSC", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: неизвестный метод вывода %q", ErrValidation, input.Method)
	}

	return nil
}

func validOutcome(outcome string) bool {
	return outcome == OutcomeSuccess || outcome == OutcomeFailure || outcome == OutcomeRandom
}

// destinationSummary строит маскированное представление реквизитов.
// UPI id отдаётся как есть, у банковского счёта видны только последние
// 4 цифры. Сырой номер счёта наружу не выходит.
func destinationSummary(input WithdrawalInput) string {
	if input.Method == models.WithdrawalMethodUPI {
		return input.UPIID
	}

	last4 := input.BankAccountNumber
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return fmt.Sprintf("A/C •••• %s / %s", last4, input.IFSC)
}
