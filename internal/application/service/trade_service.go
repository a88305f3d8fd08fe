package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vdash/internal/application/port"
	"vdash/internal/domain"
	dsvc "vdash/internal/domain/service"
)

// TradeService validates and submits trade requests against the current
// balance-derived risk cap, manages the submission lifecycle, and applies the
// resulting balance back into the Store exactly once. All outcomes are
// surfaced through the Sink as transient notices; nothing here is fatal.
type TradeService struct {
	store   *domain.Store
	backend port.Backend
	risk    *dsvc.RiskPolicy
	sink    port.Sink
	guard   *SignalGuard

	mu       sync.Mutex
	inFlight bool // single manual submission at a time
}

func NewTradeService(store *domain.Store, backend port.Backend, sink port.Sink) *TradeService {
	return &TradeService{
		store:   store,
		backend: backend,
		risk:    dsvc.NewRiskPolicy(),
		sink:    sink,
		guard:   NewSignalGuard(),
	}
}

// SubmitManual submits an operator trade. Validation order: stake must be a
// positive finite number, then stake must stay under 2% of the current
// balance. Both checks are purely local; no request is issued when they fail.
func (s *TradeService) SubmitManual(ctx context.Context, botID int, market string, stake float64) (*port.TradeOutcome, error) {
	if !s.risk.ValidStake(stake) {
		err := &ValidationError{Reason: "invalid stake"}
		s.notice(port.NoticeError, "Please enter a valid stake amount")
		return nil, err
	}

	balance := s.store.Balance()
	if !s.risk.WithinCap(stake, balance) {
		err := &RiskLimitError{Cap: s.risk.Cap(balance)}
		s.notice(port.NoticeWarning, fmt.Sprintf("Stake exceeds maximum 2%% of balance ($%.2f)", err.Cap))
		return nil, err
	}

	if !s.acquire() {
		return nil, ErrSubmissionInFlight
	}
	// 无论成功、拒绝还是传输错误，都必须释放在途标记
	defer s.release()

	req := domain.TradeRequest{
		BotID:     botID,
		Market:    market,
		Stake:     stake,
		RequestID: uuid.NewString(),
	}

	log.Info().
		Int("bot_id", botID).
		Str("market", market).
		Float64("stake", stake).
		Str("request_id", req.RequestID).
		Msg("submitting manual trade")

	outcome, err := s.backend.ExecuteTrade(ctx, req)
	if err != nil {
		s.notice(port.NoticeError, fmt.Sprintf("Error executing trade: %v", err))
		return nil, &ExecutionError{Err: err}
	}

	if !outcome.Success {
		s.notice(port.NoticeError, "Trade failed: "+outcome.Reason)
		return outcome, &RejectedError{Reason: outcome.Reason}
	}

	s.store.SetBalance(outcome.NewBalance)
	s.notice(port.NoticeSuccess, "Trade executed successfully! Contract ID: "+outcome.ContractID)
	return outcome, nil
}

// ExecuteSignal executes a backend signal by id. Local validation is skipped;
// the backend applies its own limits. Ids absent from the current signal list
// (stale UI state) are still forwarded and the backend rejection is surfaced
// gracefully. A signal id already in flight is refused locally.
func (s *TradeService) ExecuteSignal(ctx context.Context, signalID string) (*port.TradeOutcome, error) {
	if !s.guard.Begin(signalID) {
		return nil, ErrSignalInFlight
	}
	defer s.guard.End(signalID)

	if _, listed := s.store.SignalByID(signalID); !listed {
		log.Warn().Str("signal_id", signalID).Msg("executing signal not in current list")
	}

	outcome, err := s.backend.ExecuteSignal(ctx, signalID, uuid.NewString())
	if err != nil {
		s.notice(port.NoticeError, fmt.Sprintf("Error executing signal: %v", err))
		return nil, &ExecutionError{Err: err}
	}

	if !outcome.Success {
		s.notice(port.NoticeError, "Signal trade failed: "+outcome.Reason)
		return outcome, &RejectedError{Reason: outcome.Reason}
	}

	s.store.SetBalance(outcome.NewBalance)
	s.notice(port.NoticeSuccess, "Signal trade executed!")
	return outcome, nil
}

// HandleTradeResult applies an unsolicited settlement push: the balance is
// replaced with the pushed value and a win/loss notice is shown. This path
// bypasses the in-flight bookkeeping entirely.
func (s *TradeService) HandleTradeResult(ev port.TradeResult) {
	s.store.SetBalance(ev.NewBalance)
	if ev.Result == "win" {
		s.notice(port.NoticeSuccess, fmt.Sprintf("Trade won! Profit: $%.2f", ev.Profit))
	} else {
		s.notice(port.NoticeError, fmt.Sprintf("Trade lost. Loss: $%.2f", ev.Loss))
	}
}

func (s *TradeService) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *TradeService) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *TradeService) notice(level port.NoticeLevel, msg string) {
	if err := s.sink.WriteNotice(time.Now(), level, msg); err != nil {
		log.Error().Err(err).Msg("failed to write notice")
	}
}
