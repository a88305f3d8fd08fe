package domain

import "sync"

// Store is the single authoritative in-memory state container for the
// dashboard session: balance, market table, scanner matrix, signal list and
// connection liveness. It is created once at startup and mutated only through
// whole-field replacement, so every update is atomic and last-applied-wins
// across the stream and poll paths.
type Store struct {
	mu        sync.RWMutex
	balance   float64
	connected bool
	markets   map[string]MarketQuote
	scanner   ScoreMatrix
	signals   []Signal
}

// Snapshot is a deep-copied read-only view of the Store.
type Snapshot struct {
	Balance   float64
	Connected bool
	Markets   map[string]MarketQuote
	Scanner   ScoreMatrix
	Signals   []Signal
}

func NewStore() *Store {
	return &Store{
		markets: make(map[string]MarketQuote),
		scanner: make(ScoreMatrix),
	}
}

// SetBalance replaces the account balance with a backend-reported value.
// The balance is never computed locally; a negative value is malformed input
// and leaves the current balance untouched. Returns true if the value changed.
func (s *Store) SetBalance(balance float64) bool {
	if balance < 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balance == balance {
		return false
	}
	s.balance = balance
	return true
}

func (s *Store) Balance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

func (s *Store) SetConnected(connected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected == connected {
		return false
	}
	s.connected = connected
	return true
}

func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// ReplaceMarkets swaps the entire market table.
func (s *Store) ReplaceMarkets(markets map[string]MarketQuote) {
	next := make(map[string]MarketQuote, len(markets))
	for sym, q := range markets {
		if sym == "" {
			continue
		}
		next[sym] = q
	}
	s.mu.Lock()
	s.markets = next
	s.mu.Unlock()
}

// ReplaceScanner swaps the entire score matrix. Entries for bot ids outside
// the fixed bot set are dropped so downstream lookups never see unknown bots.
func (s *Store) ReplaceScanner(matrix ScoreMatrix) {
	next := make(ScoreMatrix, len(matrix))
	for id, scores := range matrix {
		if !KnownBot(id) {
			continue
		}
		copied := make(map[string]int, len(scores))
		for sym, score := range scores {
			copied[sym] = score
		}
		next[id] = copied
	}
	s.mu.Lock()
	s.scanner = next
	s.mu.Unlock()
}

// ReplaceSignals swaps the signal list. Signals absent from the new list are
// withdrawn; Store keeps no memory of them.
func (s *Store) ReplaceSignals(signals []Signal) {
	next := make([]Signal, len(signals))
	copy(next, signals)
	s.mu.Lock()
	s.signals = next
	s.mu.Unlock()
}

// SignalByID looks up a signal in the current list.
func (s *Store) SignalByID(id string) (Signal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sig := range s.signals {
		if sig.ID == id {
			return sig, true
		}
	}
	return Signal{}, false
}

// BotScores returns a copy of the score map for one bot. A bot with no entry
// yields an empty map, indistinguishable from a bot with no scores.
func (s *Store) BotScores(botID int) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.scanner[botID]))
	for sym, score := range s.scanner[botID] {
		out[sym] = score
	}
	return out
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	markets := make(map[string]MarketQuote, len(s.markets))
	for sym, q := range s.markets {
		markets[sym] = q
	}
	scanner := make(ScoreMatrix, len(s.scanner))
	for id, scores := range s.scanner {
		copied := make(map[string]int, len(scores))
		for sym, score := range scores {
			copied[sym] = score
		}
		scanner[id] = copied
	}
	signals := make([]Signal, len(s.signals))
	copy(signals, s.signals)

	return Snapshot{
		Balance:   s.balance,
		Connected: s.connected,
		Markets:   markets,
		Scanner:   scanner,
		Signals:   signals,
	}
}
