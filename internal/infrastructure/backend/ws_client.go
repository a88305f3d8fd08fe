package backend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"vdash/internal/application/port"
)

// StreamClient owns the single persistent duplex channel to the backend and
// implements port.Stream. Connection loss is never fatal: the client redials
// forever at a flat interval, with no backoff growth and no retry cap
// (固定间隔重连，不做指数退避). Liveness transitions are emitted in-band as
// ConnectionChange events.
type StreamClient struct {
	wsURL      string
	retryDelay time.Duration
}

func NewStreamClient(wsURL string, retryDelay time.Duration) *StreamClient {
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}
	return &StreamClient{
		wsURL:      strings.TrimSpace(wsURL),
		retryDelay: retryDelay,
	}
}

func (c *StreamClient) Name() string { return "backend" }

func (c *StreamClient) Subscribe(ctx context.Context) (<-chan port.Event, error) {
	if c.wsURL == "" {
		return nil, errors.New("backend ws_url empty")
	}
	out := make(chan port.Event, 1024)
	go c.run(ctx, out)
	return out, nil
}

func (c *StreamClient) run(ctx context.Context, out chan<- port.Event) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.Warn().Str("url", c.wsURL).Msg("ws connecting")
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		conn, _, err := websocket.DefaultDialer.DialContext(cctx, c.wsURL, nil)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("ws dial failed")
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		log.Info().Msg("ws connected")
		if !emit(ctx, out, port.ConnectionChange{Connected: true}) {
			_ = conn.Close()
			return
		}

		err = readLoop(ctx, conn, func(b []byte) {
			ev, derr := decodeEvent(b)
			if derr != nil {
				// malformed payload: swallow and keep the channel open
				log.Error().Err(derr).Msg("malformed backend payload")
				return
			}
			if ev == nil {
				log.Debug().Msg("unknown backend message type, ignored")
				return
			}
			emit(ctx, out, ev)
		})

		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}

		log.Warn().Err(err).Dur("retry_in", c.retryDelay).Msg("ws disconnected, reconnecting")
		if !emit(ctx, out, port.ConnectionChange{Connected: false}) {
			return
		}
		if !c.sleep(ctx) {
			return
		}
	}
}

// sleep waits one flat retry interval; false means ctx was cancelled.
func (c *StreamClient) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.retryDelay):
		return true
	}
}

func emit(ctx context.Context, out chan<- port.Event, ev port.Event) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- ev:
		return true
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, onMsg func([]byte)) error {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	pingTicker := time.NewTicker(25 * time.Second)
	defer pingTicker.Stop()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			_, b, err := conn.ReadMessage()
			if err == nil {
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			}
			if err != nil {
				errCh <- err
				return
			}
			onMsg(b)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-pingTicker.C:
			_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		}
	}
}
