package backend

import (
	"encoding/json"
	"errors"
	"strconv"

	"vdash/internal/application/port"
	"vdash/internal/domain"
)

// Inbound push kinds. Anything else is dropped without error.
const (
	msgScannerUpdate = "scanner_update"
	msgMarketUpdate  = "market_update"
	msgSignalUpdate  = "signal_update"
	msgTradeResult   = "trade_result"
)

type envelope struct {
	Type    string                    `json:"type"`
	Scanner map[string]map[string]int `json:"scanner"`
	Markets map[string]marketPayload  `json:"markets"`
	Signals []signalPayload           `json:"signals"`
	Trade   *tradePayload             `json:"trade"`
}

type marketPayload struct {
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	RSI14  float64 `json:"rsi_14"`
}

type signalPayload struct {
	ID        string `json:"id"`
	Bot       string `json:"bot"`
	Market    string `json:"market"`
	Direction string `json:"direction"`
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
}

type tradePayload struct {
	Result     string  `json:"result"`
	Profit     float64 `json:"profit"`
	Loss       float64 `json:"loss"`
	NewBalance float64 `json:"new_balance"`
}

// decodeEvent parses one inbound frame. A nil event with nil error means the
// discriminant was unknown and the frame should be ignored.
func decodeEvent(b []byte) (port.Event, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case msgScannerUpdate:
		return port.ScannerUpdate{Scanner: toScoreMatrix(env.Scanner)}, nil
	case msgMarketUpdate:
		return port.MarketUpdate{Markets: toMarkets(env.Markets)}, nil
	case msgSignalUpdate:
		return port.SignalUpdate{Signals: toSignals(env.Signals)}, nil
	case msgTradeResult:
		// a settlement frame without a body must never reach the balance path
		if env.Trade == nil {
			return nil, errors.New("trade_result frame without trade body")
		}
		return port.TradeResult{
			Result:     env.Trade.Result,
			Profit:     env.Trade.Profit,
			Loss:       env.Trade.Loss,
			NewBalance: env.Trade.NewBalance,
		}, nil
	default:
		return nil, nil
	}
}

// toScoreMatrix converts wire bot ids (JSON object keys) to ints; entries
// with non-numeric ids are dropped.
func toScoreMatrix(wire map[string]map[string]int) domain.ScoreMatrix {
	matrix := make(domain.ScoreMatrix, len(wire))
	for key, scores := range wire {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		copied := make(map[string]int, len(scores))
		for sym, score := range scores {
			copied[sym] = score
		}
		matrix[id] = copied
	}
	return matrix
}

func toMarkets(wire map[string]marketPayload) map[string]domain.MarketQuote {
	markets := make(map[string]domain.MarketQuote, len(wire))
	for sym, m := range wire {
		markets[sym] = domain.MarketQuote{
			Price:     m.Price,
			ChangePct: m.Change,
			RSI14:     m.RSI14,
		}
	}
	return markets
}

func toSignals(wire []signalPayload) []domain.Signal {
	signals := make([]domain.Signal, 0, len(wire))
	for _, s := range wire {
		signals = append(signals, domain.Signal{
			ID:        s.ID,
			Bot:       s.Bot,
			Market:    s.Market,
			Direction: domain.Direction(s.Direction),
			Score:     s.Score,
			Reason:    s.Reason,
		})
	}
	return signals
}
