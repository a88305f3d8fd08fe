package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"vdash/internal/application/port"
	appservice "vdash/internal/application/service"
	"vdash/internal/domain"
)

const (
	DefaultRefreshEvery  = 5 * time.Second
	DefaultSnapshotEvery = 5 * time.Minute
)

type ServiceDeps struct {
	Stream        port.Stream
	Backend       port.Backend
	Store         *domain.Store
	Trades        *appservice.TradeService
	Sink          port.Sink
	Repo          port.Repository
	RefreshEvery  time.Duration
	SnapshotEvery time.Duration
}

// Service runs the dashboard loop: it merges stream events with the poll
// fallback, applies updates to the Store in arrival order, journals session
// observations and pushes rendered output to the Sink.
type Service struct {
	deps ServiceDeps
	fmt  *Formatter
}

func NewService(deps ServiceDeps) *Service {
	if deps.RefreshEvery <= 0 {
		deps.RefreshEvery = DefaultRefreshEvery
	}
	if deps.SnapshotEvery <= 0 {
		deps.SnapshotEvery = DefaultSnapshotEvery
	}
	if deps.Repo == nil {
		deps.Repo = NewNoopRepo()
	}
	return &Service{deps: deps, fmt: NewFormatter()}
}

type initialResult struct {
	data *port.InitialData
	err  error
}

type refreshResult struct {
	balance float64
	ok      bool
	err     error
}

func (s *Service) Run(ctx context.Context) error {
	if s.deps.Stream == nil || s.deps.Backend == nil {
		return errors.New("dashboard service misconfigured: stream and backend required")
	}

	events, err := s.deps.Stream.Subscribe(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("stream", s.deps.Stream.Name()).Msg("stream started")

	// initial load fires exactly once, regardless of connection state
	initialCh := make(chan initialResult, 1)
	go func() {
		data, err := s.deps.Backend.InitialData(ctx)
		initialCh <- initialResult{data: data, err: err}
	}()

	// 定时余额刷新，与连接状态无关（fallback 的意义就在于连接不可靠时仍然能取数）
	refreshTicker := time.NewTicker(s.deps.RefreshEvery)
	defer refreshTicker.Stop()
	refreshCh := make(chan refreshResult, 1)
	refreshBusy := false

	snapTicker := time.NewTicker(s.deps.SnapshotEvery)
	defer snapTicker.Stop()

	// seen signal ids, for journaling only new arrivals
	seenSignals := make(map[string]struct{})

	s.redraw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case res := <-initialCh:
			if res.err != nil {
				log.Warn().Err(res.err).Msg("initial data load failed")
				continue
			}
			s.applyInitial(ctx, res.data, seenSignals)
			s.redraw()

		case <-refreshTicker.C:
			if refreshBusy {
				continue // previous poll still pending, skip this cycle
			}
			refreshBusy = true
			go func() {
				balance, ok, err := s.deps.Backend.RefreshBalance(ctx)
				refreshCh <- refreshResult{balance: balance, ok: ok, err: err}
			}()

		case res := <-refreshCh:
			refreshBusy = false
			if res.err != nil {
				log.Warn().Err(res.err).Msg("refresh poll failed, skipping cycle")
				continue
			}
			if res.ok && s.deps.Store.SetBalance(res.balance) {
				s.journalBalance(ctx, res.balance)
				s.redraw()
			}

		case now := <-snapTicker.C:
			line := s.fmt.RenderSnapshot(s.deps.Store.Snapshot())
			if err := s.deps.Repo.InsertSnapshot(ctx, now.UnixMilli(), line); err != nil {
				log.Error().Err(err).Msg("snapshot journal failed")
			}

		case ev, ok := <-events:
			if !ok {
				return ctx.Err()
			}
			s.handleEvent(ctx, ev, seenSignals)
		}
	}
}

// RefreshScanner pulls the full score matrix on demand (operator-triggered).
func (s *Service) RefreshScanner(ctx context.Context) error {
	matrix, err := s.deps.Backend.Scanner(ctx)
	if err != nil {
		return err
	}
	s.deps.Store.ReplaceScanner(matrix)
	s.redraw()
	return nil
}

func (s *Service) applyInitial(ctx context.Context, data *port.InitialData, seen map[string]struct{}) {
	s.deps.Store.SetBalance(data.Balance)
	s.deps.Store.ReplaceMarkets(data.Markets)
	s.deps.Store.ReplaceScanner(data.Scanner)
	s.journalSignals(ctx, data.Signals, seen)
	s.deps.Store.ReplaceSignals(data.Signals)
	s.journalBalance(ctx, data.Balance)
	log.Info().
		Float64("balance", data.Balance).
		Int("markets", len(data.Markets)).
		Int("signals", len(data.Signals)).
		Msg("initial data loaded")
}

func (s *Service) handleEvent(ctx context.Context, ev port.Event, seen map[string]struct{}) {
	switch ev := ev.(type) {
	case port.ConnectionChange:
		s.deps.Store.SetConnected(ev.Connected)
		if err := s.deps.Sink.WriteStatus(ev.Connected); err != nil {
			log.Error().Err(err).Msg("failed to write status")
		}
		s.redraw()

	case port.ScannerUpdate:
		s.deps.Store.ReplaceScanner(ev.Scanner)
		s.redraw()

	case port.MarketUpdate:
		s.deps.Store.ReplaceMarkets(ev.Markets)
		s.redraw()

	case port.SignalUpdate:
		s.journalSignals(ctx, ev.Signals, seen)
		s.deps.Store.ReplaceSignals(ev.Signals)
		s.redraw()

	case port.TradeResult:
		s.deps.Trades.HandleTradeResult(ev)
		s.journalBalance(ctx, ev.NewBalance)
		s.redraw()

	default:
		// closed union; anything else is a programming error upstream
		log.Error().Type("event", ev).Msg("unhandled stream event")
	}
}

func (s *Service) journalBalance(ctx context.Context, balance float64) {
	if err := s.deps.Repo.UpsertBalance(ctx, balance, time.Now().UnixMilli()); err != nil {
		log.Error().Err(err).Msg("balance journal failed")
	}
}

func (s *Service) journalSignals(ctx context.Context, signals []domain.Signal, seen map[string]struct{}) {
	now := time.Now().UnixMilli()
	for _, sig := range signals {
		if _, ok := seen[sig.ID]; ok {
			continue
		}
		seen[sig.ID] = struct{}{}
		if err := s.deps.Repo.InsertSignal(ctx, now, sig); err != nil {
			log.Error().Err(err).Msg("signal journal failed")
		}
	}
}

func (s *Service) redraw() {
	if err := s.deps.Sink.WriteLive(s.fmt.RenderLive(s.deps.Store.Snapshot())); err != nil {
		log.Error().Err(err).Msg("failed to write live line")
	}
}
