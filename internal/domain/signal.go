package domain

// Direction of a backend trade suggestion.
type Direction string

const (
	DirectionRise Direction = "RISE"
	DirectionFall Direction = "FALL"
)

// Signal is a backend-originated actionable trade suggestion. Its ID is
// unique within the current signal list but not stable across updates: once
// a signal disappears from an update it is considered withdrawn.
type Signal struct {
	ID        string
	Bot       string
	Market    string
	Direction Direction
	Score     int
	Reason    string
}

// TradeRequest is an operator-initiated trade submission. Ephemeral; exists
// only for the duration of one backend call.
type TradeRequest struct {
	BotID     int
	Market    string
	Stake     float64
	RequestID string // client-generated, for backend-side idempotency
}
