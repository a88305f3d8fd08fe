package port

import (
	"context"

	"vdash/internal/domain"
)

// Event is the closed union of everything the backend stream can deliver:
// the four push kinds plus connection liveness changes. New kinds must be
// added here and handled explicitly by consumers.
type Event interface{ isEvent() }

// ConnectionChange reports the duplex channel opening or closing. It is
// delivered in-band so ordering against data events is preserved.
type ConnectionChange struct {
	Connected bool
}

// ScannerUpdate carries a full replacement score matrix.
type ScannerUpdate struct {
	Scanner domain.ScoreMatrix
}

// MarketUpdate carries a full replacement market table.
type MarketUpdate struct {
	Markets map[string]domain.MarketQuote
}

// SignalUpdate carries the full current signal list; ids absent from it are
// withdrawn.
type SignalUpdate struct {
	Signals []domain.Signal
}

// TradeResult is an unsolicited settlement push for a backend-side trade.
type TradeResult struct {
	Result     string // "win" or "loss"
	Profit     float64
	Loss       float64
	NewBalance float64
}

func (ConnectionChange) isEvent() {}
func (ScannerUpdate) isEvent()    {}
func (MarketUpdate) isEvent()     {}
func (SignalUpdate) isEvent()     {}
func (TradeResult) isEvent()      {}

// Stream is a live event source backed by the duplex backend channel.
// Subscribe starts the connect/read/reconnect loop; the returned channel is
// closed only when ctx is cancelled.
type Stream interface {
	Name() string
	Subscribe(ctx context.Context) (<-chan Event, error)
}
