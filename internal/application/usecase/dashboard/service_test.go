package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"vdash/internal/application/port"
	appservice "vdash/internal/application/service"
	"vdash/internal/domain"
)

type stubStream struct {
	events chan port.Event
}

func (s *stubStream) Name() string { return "stub" }

func (s *stubStream) Subscribe(ctx context.Context) (<-chan port.Event, error) {
	return s.events, nil
}

type stubBackend struct {
	mu             sync.Mutex
	initial        *port.InitialData
	refreshBalance float64
	refreshOK      bool
	refreshCalls   int
}

func (b *stubBackend) InitialData(ctx context.Context) (*port.InitialData, error) {
	return b.initial, nil
}

func (b *stubBackend) RefreshBalance(ctx context.Context) (float64, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshCalls++
	return b.refreshBalance, b.refreshOK, nil
}

func (b *stubBackend) Scanner(ctx context.Context) (domain.ScoreMatrix, error) {
	return domain.ScoreMatrix{1: {"V75": 90}}, nil
}

func (b *stubBackend) ExecuteTrade(ctx context.Context, req domain.TradeRequest) (*port.TradeOutcome, error) {
	return &port.TradeOutcome{Success: true}, nil
}

func (b *stubBackend) ExecuteSignal(ctx context.Context, signalID, requestID string) (*port.TradeOutcome, error) {
	return &port.TradeOutcome{Success: true}, nil
}

type recordingSink struct {
	mu       sync.Mutex
	lives    []string
	statuses []bool
}

func (s *recordingSink) WriteLive(line string) error {
	s.mu.Lock()
	s.lives = append(s.lives, line)
	s.mu.Unlock()
	return nil
}

func (s *recordingSink) WriteStatus(connected bool) error {
	s.mu.Lock()
	s.statuses = append(s.statuses, connected)
	s.mu.Unlock()
	return nil
}

func (s *recordingSink) WriteNotice(ts time.Time, level port.NoticeLevel, msg string) error {
	return nil
}

type recordingRepo struct {
	mu        sync.Mutex
	balances  []float64
	signals   []domain.Signal
	snapshots []string
}

func (r *recordingRepo) UpsertBalance(ctx context.Context, balance float64, ts int64) error {
	r.mu.Lock()
	r.balances = append(r.balances, balance)
	r.mu.Unlock()
	return nil
}

func (r *recordingRepo) InsertSignal(ctx context.Context, ts int64, sig domain.Signal) error {
	r.mu.Lock()
	r.signals = append(r.signals, sig)
	r.mu.Unlock()
	return nil
}

func (r *recordingRepo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, payload)
	r.mu.Unlock()
	return nil
}

func (r *recordingRepo) Close() error { return nil }

func (r *recordingRepo) signalCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.signals)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func newRunningService(t *testing.T, stream *stubStream, backend *stubBackend, repo port.Repository, refreshEvery time.Duration) (*Service, *domain.Store, *recordingSink, context.CancelFunc) {
	t.Helper()
	store := domain.NewStore()
	sink := &recordingSink{}
	trades := appservice.NewTradeService(store, backend, sink)

	svc := NewService(ServiceDeps{
		Stream:       stream,
		Backend:      backend,
		Store:        store,
		Trades:       trades,
		Sink:         sink,
		Repo:         repo,
		RefreshEvery: refreshEvery,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return svc, store, sink, cancel
}

func TestServiceAppliesInitialData(t *testing.T) {
	stream := &stubStream{events: make(chan port.Event)}
	backend := &stubBackend{
		initial: &port.InitialData{
			Balance: 1000,
			Markets: map[string]domain.MarketQuote{"V75": {Price: 1234.5}},
			Scanner: domain.ScoreMatrix{1: {"V75": 80}},
			Signals: []domain.Signal{{ID: "sig-1"}},
		},
	}
	repo := &recordingRepo{}
	_, store, _, _ := newRunningService(t, stream, backend, repo, time.Hour)

	waitFor(t, func() bool { return store.Balance() == 1000 }, "initial balance not applied")

	if _, ok := store.SignalByID("sig-1"); !ok {
		t.Error("initial signals not applied")
	}
	if store.BotScores(1)["V75"] != 80 {
		t.Error("initial scanner not applied")
	}
	waitFor(t, func() bool { return repo.signalCount() == 1 }, "initial signal not journaled")
}

func TestServiceHandlesStreamEvents(t *testing.T) {
	stream := &stubStream{events: make(chan port.Event, 8)}
	backend := &stubBackend{initial: &port.InitialData{}}
	repo := &recordingRepo{}
	_, store, sink, _ := newRunningService(t, stream, backend, repo, time.Hour)

	stream.events <- port.ConnectionChange{Connected: true}
	waitFor(t, store.Connected, "connection change not applied")

	stream.events <- port.ScannerUpdate{Scanner: domain.ScoreMatrix{2: {"V100": 70}}}
	waitFor(t, func() bool { return store.BotScores(2)["V100"] == 70 }, "scanner update not applied")

	stream.events <- port.MarketUpdate{Markets: map[string]domain.MarketQuote{"V50": {Price: 9.87}}}
	waitFor(t, func() bool { return store.Snapshot().Markets["V50"].Price == 9.87 }, "market update not applied")

	stream.events <- port.SignalUpdate{Signals: []domain.Signal{{ID: "sig-9"}}}
	waitFor(t, func() bool { _, ok := store.SignalByID("sig-9"); return ok }, "signal update not applied")

	// 结算推送：余额精确替换为推送值
	stream.events <- port.TradeResult{Result: "win", Profit: 5, NewBalance: 1005}
	waitFor(t, func() bool { return store.Balance() == 1005 }, "trade result balance not applied")

	sink.mu.Lock()
	gotStatus := len(sink.statuses) == 1 && sink.statuses[0]
	sink.mu.Unlock()
	if !gotStatus {
		t.Error("connection change should write status")
	}
}

func TestServiceRefreshPoll(t *testing.T) {
	stream := &stubStream{events: make(chan port.Event)}
	backend := &stubBackend{initial: &port.InitialData{}, refreshBalance: 555.55, refreshOK: true}
	repo := &recordingRepo{}
	_, store, _, _ := newRunningService(t, stream, backend, repo, 10*time.Millisecond)

	waitFor(t, func() bool { return store.Balance() == 555.55 }, "refresh poll balance not applied")
}

// 刷新响应缺少余额字段时跳过本轮，不得清零
func TestServiceRefreshPollMissingBalance(t *testing.T) {
	stream := &stubStream{events: make(chan port.Event)}
	backend := &stubBackend{
		initial:   &port.InitialData{Balance: 777},
		refreshOK: false,
	}
	repo := &recordingRepo{}
	_, store, _, _ := newRunningService(t, stream, backend, repo, 10*time.Millisecond)

	waitFor(t, func() bool { return store.Balance() == 777 }, "initial balance not applied")
	waitFor(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return backend.refreshCalls >= 3
	}, "refresh poll not firing")

	if store.Balance() != 777 {
		t.Errorf("balance = %v, want untouched 777", store.Balance())
	}
}

func TestServiceJournalsNewSignalsOnly(t *testing.T) {
	stream := &stubStream{events: make(chan port.Event, 4)}
	backend := &stubBackend{initial: &port.InitialData{}}
	repo := &recordingRepo{}
	_, store, _, _ := newRunningService(t, stream, backend, repo, time.Hour)

	stream.events <- port.SignalUpdate{Signals: []domain.Signal{{ID: "a"}, {ID: "b"}}}
	waitFor(t, func() bool { return repo.signalCount() == 2 }, "first signals not journaled")

	// 重复出现的 id 不再落库，只有新 id 记一次
	stream.events <- port.SignalUpdate{Signals: []domain.Signal{{ID: "b"}, {ID: "c"}}}
	waitFor(t, func() bool { _, ok := store.SignalByID("c"); return ok }, "second update not applied")
	waitFor(t, func() bool { return repo.signalCount() == 3 }, "new signal not journaled")

	time.Sleep(20 * time.Millisecond)
	if n := repo.signalCount(); n != 3 {
		t.Errorf("journaled signals = %d, want 3", n)
	}
}

func TestRefreshScanner(t *testing.T) {
	stream := &stubStream{events: make(chan port.Event)}
	backend := &stubBackend{initial: &port.InitialData{}}
	svc, store, _, _ := newRunningService(t, stream, backend, &recordingRepo{}, time.Hour)

	if err := svc.RefreshScanner(context.Background()); err != nil {
		t.Fatalf("RefreshScanner failed: %v", err)
	}
	if store.BotScores(1)["V75"] != 90 {
		t.Error("manual scanner refresh not applied")
	}
}
