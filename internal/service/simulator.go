package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/payouts-backend/internal/goroutine"
	"github.com/ignatzorin/payouts-backend/internal/logger"
	"github.com/ignatzorin/payouts-backend/internal/models"
	"github.com/ignatzorin/payouts-backend/internal/signature"
)

// simulatedFailureReason — фиксированная причина отказа для payout.failed.
const simulatedFailureReason = "Beneficiary bank rejected the transfer"

// EventSink принимает подписанное событие провайдера.
// В бою это HTTP endpoint вебхука, в процессе — реконсилятор напрямую:
// конверт в обоих случаях один и тот же, подписанный.
type EventSink interface {
	HandleEvent(ctx context.Context, raw []byte, signatureHex string) error
}

// SimulatorConfig — параметры симулятора исходов.
type SimulatorConfig struct {
	Provider    string
	Secret      string
	SuccessRate float64
	MinDelay    time.Duration
	MaxDelay    time.Duration
	QueueSize   int
	Workers     int
}

type outcomeJob struct {
	withdrawalID uuid.UUID
	outcome      string
}

// Simulator асинхронно изготавливает события провайдера: после случайной
// задержки собирает конверт payout.processed/payout.failed, подписывает его
// и отдаёт в EventSink. Статусы заявок симулятор не трогает — единственный
// путь записи проходит через реконсилятор.
type Simulator struct {
	cfg   SimulatorConfig
	sink  EventSink
	queue chan outcomeJob

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulator(cfg SimulatorConfig, sink EventSink) *Simulator {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	return &Simulator{
		cfg:   cfg,
		sink:  sink,
		queue: make(chan outcomeJob, cfg.QueueSize),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start запускает воркеры. Воркеры живут до отмены контекста.
func (s *Simulator) Start(ctx context.Context) {
	for i := 0; i < s.cfg.Workers; i++ {
		goroutine.SafeGoWithContext(ctx, s.worker)
	}
}

// ScheduleOutcome ставит симуляцию в очередь, не блокируя вызывающего.
// При переполнении очереди задание отбрасывается с предупреждением:
// доставка best-effort, заявка останется в processing.
func (s *Simulator) ScheduleOutcome(withdrawalID uuid.UUID, outcome string) {
	select {
	case s.queue <- outcomeJob{withdrawalID: withdrawalID, outcome: outcome}:
	default:
		logger.Log.WithField("withdrawal_id", withdrawalID).Warn("simulator: очередь переполнена, задание отброшено")
	}
}

func (s *Simulator) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.queue:
			s.process(ctx, job)
		}
	}
}

func (s *Simulator) process(ctx context.Context, job outcomeJob) {
	// Случайная задержка моделирует сетевую и процессинговую латентность.
	timer := time.NewTimer(s.randomDelay())
	select {
	case <-ctx.Done():
		timer.Stop()
		return
	case <-timer.C:
	}

	raw, sig, err := s.buildSignedEvent(job.withdrawalID, s.resolveOutcome(job.outcome))
	if err != nil {
		logger.Log.WithError(err).Error("simulator: не удалось собрать событие")
		return
	}

	// Ошибка доставки проглатывается: ретраев нет, исходный HTTP ответ
	// давно завершён и сообщить о сбое некому.
	if err := s.sink.HandleEvent(ctx, raw, sig); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"withdrawal_id": job.withdrawalID,
			"error":         err.Error(),
		}).Error("simulator: доставка события не удалась")
	}
}

// resolveOutcome переводит запрошенный исход в успех/отказ.
// Для random успех выпадает с вероятностью cfg.SuccessRate.
func (s *Simulator) resolveOutcome(outcome string) bool {
	switch outcome {
	case OutcomeSuccess:
		return true
	case OutcomeFailure:
		return false
	default:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.rnd.Float64() < s.cfg.SuccessRate
	}
}

func (s *Simulator) randomDelay() time.Duration {
	window := s.cfg.MaxDelay - s.cfg.MinDelay
	if window <= 0 {
		return s.cfg.MinDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.MinDelay + time.Duration(s.rnd.Int63n(int64(window)))
}

// buildSignedEvent собирает конверт события провайдера со свежими event id
// и payout id, сериализует его и подписывает итоговые байты.
func (s *Simulator) buildSignedEvent(withdrawalID uuid.UUID, success bool) ([]byte, string, error) {
	eventType := models.EventTypePayoutProcessed
	var failureReason *string
	if !success {
		eventType = models.EventTypePayoutFailed
		reason := simulatedFailureReason
		failureReason = &reason
	}

	event := map[string]any{
		"event_id":   fmt.Sprintf("evt_%s", uuid.NewString()),
		"event":      eventType,
		"created_at": time.Now().Unix(),
		"payload": map[string]any{
			"payout": map[string]any{
				"entity": map[string]any{
					"id":             fmt.Sprintf("pout_%s", uuid.NewString()),
					"reference_id":   withdrawalID.String(),
					"failure_reason": failureReason,
				},
			},
		},
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("сериализация события: %w", err)
	}

	return raw, signature.Sign(s.cfg.Secret, raw), nil
}
