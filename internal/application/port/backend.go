package port

import (
	"context"

	"vdash/internal/domain"
)

// InitialData is the full snapshot pulled once at startup.
type InitialData struct {
	Balance float64
	Markets map[string]domain.MarketQuote
	Scanner domain.ScoreMatrix
	Signals []domain.Signal
}

// TradeOutcome is the backend's answer to a trade or signal execution.
type TradeOutcome struct {
	Success    bool
	ContractID string
	Reason     string // backend-supplied failure reason, verbatim
	NewBalance float64
}

// Backend is the pull/command side of the backend API.
type Backend interface {
	// InitialData pulls the full snapshot.
	InitialData(ctx context.Context) (*InitialData, error)
	// RefreshBalance pulls the lightweight refresh payload; ok is false when
	// the payload carried no balance.
	RefreshBalance(ctx context.Context) (balance float64, ok bool, err error)
	// Scanner pulls the full score matrix (manual refresh).
	Scanner(ctx context.Context) (domain.ScoreMatrix, error)
	// ExecuteTrade submits a manual trade.
	ExecuteTrade(ctx context.Context, req domain.TradeRequest) (*TradeOutcome, error)
	// ExecuteSignal executes a backend signal by id.
	ExecuteSignal(ctx context.Context, signalID, requestID string) (*TradeOutcome, error)
}
