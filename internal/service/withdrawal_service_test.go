package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/payouts-backend/internal/models"
	"github.com/ignatzorin/payouts-backend/internal/repository"
)

type mockWithdrawalRepo struct {
	mock.Mock
}

// Create возвращает переданную модель, имитируя INSERT ... RETURNING.
func (m *mockWithdrawalRepo) Create(ctx context.Context, w *models.Withdrawal) (*models.Withdrawal, error) {
	args := m.Called(ctx, w)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return w, nil
}

func (m *mockWithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *mockWithdrawalRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.Withdrawal, error) {
	args := m.Called(ctx, ownerID, limit)
	return args.Get(0).([]models.Withdrawal), args.Error(1)
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) ScheduleOutcome(withdrawalID uuid.UUID, outcome string) {
	m.Called(withdrawalID, outcome)
}

func TestWithdrawalService_CreateWithdrawal_UPI(t *testing.T) {
	repo := new(mockWithdrawalRepo)
	scheduler := new(mockScheduler)
	svc := NewWithdrawalService(repo, scheduler)
	ctx := context.Background()

	var created *models.Withdrawal
	repo.On("Create", ctx, mock.AnythingOfType("*models.Withdrawal")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Withdrawal)
		}).
		Return(nil, nil).
		Once()
	scheduler.On("ScheduleOutcome", mock.AnythingOfType("uuid.UUID"), OutcomeSuccess).Once()

	_, err := svc.CreateWithdrawal(ctx, "owner-1", WithdrawalInput{
		Amount:            1000,
		Method:            models.WithdrawalMethodUPI,
		AccountHolderName: "Demo User",
		UPIID:             "demo@upi",
		SimulateOutcome:   OutcomeSuccess,
	})
	assert.NoError(t, err)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.Equal(t, models.WithdrawalCurrency, created.Currency)
	assert.Equal(t, "demo@upi", created.DestinationSummary)
	assert.NotNil(t, created.UPIID)
	assert.Nil(t, created.BankAccountNumber)
	repo.AssertExpectations(t)
	scheduler.AssertExpectations(t)
}

func TestWithdrawalService_CreateWithdrawal_BankMasking(t *testing.T) {
	repo := new(mockWithdrawalRepo)
	scheduler := new(mockScheduler)
	svc := NewWithdrawalService(repo, scheduler)
	ctx := context.Background()

	var created *models.Withdrawal
	repo.On("Create", ctx, mock.AnythingOfType("*models.Withdrawal")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Withdrawal)
		}).
		Return(nil, nil).
		Once()
	scheduler.On("ScheduleOutcome", mock.Anything, OutcomeRandom).Once()

	_, err := svc.CreateWithdrawal(ctx, "owner-1", WithdrawalInput{
		Amount:            500,
		Method:            models.WithdrawalMethodBank,
		AccountHolderName: "Demo User",
		BankAccountNumber: "123456789012",
		IFSC:              "hdfc0001234",
	})
	assert.NoError(t, err)
	// Наружу выходит только маска: последние 4 цифры счёта и IFSC в верхнем регистре.
	assert.Equal(t, "A/C •••• 9012 / HDFC0001234", created.DestinationSummary)
	assert.Equal(t, "HDFC0001234", *created.IFSC)
}

func TestWithdrawalService_CreateWithdrawal_ValidationErrors(t *testing.T) {
	repo := new(mockWithdrawalRepo)
	scheduler := new(mockScheduler)
	svc := NewWithdrawalService(repo, scheduler)
	ctx := context.Background()

	cases := []struct {
		name  string
		input WithdrawalInput
	}{
		{"нулевая сумма", WithdrawalInput{Amount: 0, Method: "upi", UPIID: "a@upi"}},
		{"отрицательная сумма", WithdrawalInput{Amount: -10, Method: "upi", UPIID: "a@upi"}},
		{"NaN", WithdrawalInput{Amount: math.NaN(), Method: "upi", UPIID: "a@upi"}},
		{"Inf", WithdrawalInput{Amount: math.Inf(1), Method: "upi", UPIID: "a@upi"}},
		{"неизвестный метод", WithdrawalInput{Amount: 100, Method: "card"}},
		{"upi без upiId", WithdrawalInput{Amount: 100, Method: "upi"}},
		{"bank без счёта", WithdrawalInput{Amount: 100, Method: "bank", IFSC: "HDFC0001234"}},
		{"bank без IFSC", WithdrawalInput{Amount: 100, Method: "bank", BankAccountNumber: "123456789012"}},
		{"недопустимый исход", WithdrawalInput{Amount: 100, Method: "upi", UPIID: "a@upi", SimulateOutcome: "explode"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateWithdrawal(ctx, "owner-1", tc.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// Валидация происходит до записи: ни одна заявка не создана.
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	scheduler.AssertNotCalled(t, "ScheduleOutcome", mock.Anything, mock.Anything)
}

func TestWithdrawalService_ListWithdrawals(t *testing.T) {
	repo := new(mockWithdrawalRepo)
	scheduler := new(mockScheduler)
	svc := NewWithdrawalService(repo, scheduler)
	ctx := context.Background()

	expected := []models.Withdrawal{{ID: uuid.New(), OwnerID: "owner-1"}}
	repo.On("ListByOwner", ctx, "owner-1", 25).Return(expected, nil)

	withdrawals, err := svc.ListWithdrawals(ctx, "owner-1", 25)
	assert.NoError(t, err)
	assert.Equal(t, expected, withdrawals)
}

func TestWithdrawalService_SimulateOutcome(t *testing.T) {
	repo := new(mockWithdrawalRepo)
	scheduler := new(mockScheduler)
	svc := NewWithdrawalService(repo, scheduler)
	ctx := context.Background()
	id := uuid.New()

	repo.On("GetByID", ctx, id).Return(&models.Withdrawal{ID: id}, nil)
	scheduler.On("ScheduleOutcome", id, OutcomeFailure).Once()

	assert.NoError(t, svc.SimulateOutcome(ctx, id, OutcomeFailure))
	scheduler.AssertExpectations(t)
}

func TestWithdrawalService_SimulateOutcome_NotFound(t *testing.T) {
	repo := new(mockWithdrawalRepo)
	scheduler := new(mockScheduler)
	svc := NewWithdrawalService(repo, scheduler)
	ctx := context.Background()
	id := uuid.New()

	repo.On("GetByID", ctx, id).Return(nil, repository.ErrWithdrawalNotFound)

	err := svc.SimulateOutcome(ctx, id, OutcomeRandom)
	assert.ErrorIs(t, err, repository.ErrWithdrawalNotFound)
	scheduler.AssertNotCalled(t, "ScheduleOutcome", mock.Anything, mock.Anything)
}

func TestWithdrawalService_SimulateOutcome_InvalidOutcome(t *testing.T) {
	repo := new(mockWithdrawalRepo)
	scheduler := new(mockScheduler)
	svc := NewWithdrawalService(repo, scheduler)

	err := svc.SimulateOutcome(context.Background(), uuid.New(), "explode")
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
