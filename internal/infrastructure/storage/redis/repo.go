package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"vdash/internal/application/port"
	"vdash/internal/domain"
)

// Repo relays session observations to Redis so external consumers can watch
// the dashboard session: the latest balance under a TTL key, signal arrivals
// on a stream plus a pub/sub channel.
type Repo struct {
	rdb          *redis.Client
	prefix       string
	ttl          time.Duration
	keyBalance   string // prefix + ":balance"
	signalStream string
	signalChan   string
}

type balanceEntry struct {
	Amount float64 `json:"amount"`
	Ts     int64   `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration, signalStream, signalChan string) *Repo {
	if strings.TrimSpace(signalStream) == "" {
		signalStream = prefix + ":signals"
	}
	if strings.TrimSpace(signalChan) == "" {
		signalChan = prefix + ":signals:pub"
	}
	return &Repo{
		rdb:          rdb,
		prefix:       prefix,
		ttl:          ttl,
		keyBalance:   prefix + ":balance",
		signalStream: signalStream,
		signalChan:   signalChan,
	}
}

func (r *Repo) UpsertBalance(ctx context.Context, balance float64, ts int64) error {
	if balance < 0 {
		return nil
	}
	b, _ := json.Marshal(balanceEntry{Amount: balance, Ts: ts})

	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, r.keyBalance, string(b), 0)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyBalance, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertSignal(ctx context.Context, ts int64, sig domain.Signal) error {
	// 1) Stream: XADD <stream> * ...
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.signalStream,
		Values: map[string]any{
			"ts_ms":     ts,
			"signal_id": sig.ID,
			"bot":       sig.Bot,
			"market":    sig.Market,
			"direction": string(sig.Direction),
			"score":     sig.Score,
			"reason":    sig.Reason,
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) PubSub: PUBLISH <channel> json
	msg := fmt.Sprintf(`{"ts_ms":%d,"signal_id":%q,"bot":%q,"market":%q,"direction":%q,"score":%d,"reason":%q}`,
		ts, sig.ID, sig.Bot, sig.Market, sig.Direction, sig.Score, sig.Reason)
	return r.rdb.Publish(ctx, r.signalChan, msg).Err()
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	// snapshots stay local; Redis only carries live observations
	return nil
}

func (r *Repo) Close() error { return nil }

var _ port.Repository = (*Repo)(nil)
