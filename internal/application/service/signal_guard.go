package service

import "sync"

// SignalGuard 信号执行去重器 - 防止同一信号被快速重复执行
// An id is held from the moment execution starts until the request settles
// (success, rejection or transport error); a second execution of a held id
// is refused locally without a backend call.
type SignalGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewSignalGuard() *SignalGuard {
	return &SignalGuard{inFlight: make(map[string]struct{})}
}

// Begin marks a signal id as executing. Returns false if it already is.
func (g *SignalGuard) Begin(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.inFlight[id]; held {
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

// End releases a signal id. Safe to call for ids that were never begun.
func (g *SignalGuard) End(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, id)
}

// Executing reports whether a signal id is currently held.
func (g *SignalGuard) Executing(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, held := g.inFlight[id]
	return held
}
