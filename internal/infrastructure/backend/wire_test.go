package backend

import (
	"testing"

	"vdash/internal/application/port"
	"vdash/internal/domain"
)

func TestDecodeScannerUpdate(t *testing.T) {
	raw := []byte(`{"type":"scanner_update","scanner":{"1":{"V75":82,"V100":64},"not-a-bot":{"V75":99}}}`)

	ev, err := decodeEvent(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	upd, ok := ev.(port.ScannerUpdate)
	if !ok {
		t.Fatalf("event type = %T, want ScannerUpdate", ev)
	}
	if upd.Scanner[1]["V75"] != 82 {
		t.Errorf("bot 1 V75 = %d, want 82", upd.Scanner[1]["V75"])
	}
	// 非数字的 bot id 直接丢弃
	if len(upd.Scanner) != 1 {
		t.Errorf("matrix size = %d, want 1", len(upd.Scanner))
	}
}

func TestDecodeMarketUpdate(t *testing.T) {
	raw := []byte(`{"type":"market_update","markets":{"V75":{"price":1234.5678,"change":-0.42,"rsi_14":55.1}}}`)

	ev, err := decodeEvent(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	upd, ok := ev.(port.MarketUpdate)
	if !ok {
		t.Fatalf("event type = %T, want MarketUpdate", ev)
	}
	q := upd.Markets["V75"]
	if q.Price != 1234.5678 || q.ChangePct != -0.42 || q.RSI14 != 55.1 {
		t.Errorf("quote = %+v", q)
	}
}

func TestDecodeSignalUpdate(t *testing.T) {
	raw := []byte(`{"type":"signal_update","signals":[{"id":"sig-1","bot":"Bot #3 - Berlin X9","market":"V75","direction":"RISE","score":82,"reason":"momentum"}]}`)

	ev, err := decodeEvent(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	upd, ok := ev.(port.SignalUpdate)
	if !ok {
		t.Fatalf("event type = %T, want SignalUpdate", ev)
	}
	if len(upd.Signals) != 1 {
		t.Fatalf("signals = %d, want 1", len(upd.Signals))
	}
	sig := upd.Signals[0]
	if sig.ID != "sig-1" || sig.Direction != domain.DirectionRise || sig.Score != 82 {
		t.Errorf("signal = %+v", sig)
	}
}

func TestDecodeTradeResult(t *testing.T) {
	raw := []byte(`{"type":"trade_result","trade":{"result":"win","profit":18.5,"new_balance":1018.5}}`)

	ev, err := decodeEvent(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	res, ok := ev.(port.TradeResult)
	if !ok {
		t.Fatalf("event type = %T, want TradeResult", ev)
	}
	if res.Result != "win" || res.Profit != 18.5 || res.NewBalance != 1018.5 {
		t.Errorf("result = %+v", res)
	}
}

// trade_result 缺少 trade 体：必须按坏帧丢弃，绝不能落到余额路径上变成清零
func TestDecodeTradeResultMissingBody(t *testing.T) {
	for _, raw := range []string{
		`{"type":"trade_result"}`,
		`{"type":"trade_result","trade":null}`,
	} {
		ev, err := decodeEvent([]byte(raw))
		if err == nil {
			t.Errorf("frame %q must error", raw)
		}
		if ev != nil {
			t.Errorf("frame %q must not yield an event, got %T", raw, ev)
		}
	}
}

// 未知类型静默忽略：nil 事件且无错误
func TestDecodeUnknownType(t *testing.T) {
	ev, err := decodeEvent([]byte(`{"type":"heartbeat","n":1}`))
	if err != nil {
		t.Fatalf("unknown type must not error, got %v", err)
	}
	if ev != nil {
		t.Errorf("unknown type must yield nil event, got %T", ev)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{`{not json`, `"just a string"`, `[1,2,3]`} {
		if _, err := decodeEvent([]byte(raw)); err == nil {
			t.Errorf("malformed frame %q must error", raw)
		}
	}
}

func TestDecodeMissingType(t *testing.T) {
	ev, err := decodeEvent([]byte(`{"balance":100}`))
	if err != nil {
		t.Fatalf("frame without type must not error, got %v", err)
	}
	if ev != nil {
		t.Errorf("frame without type must be ignored, got %T", ev)
	}
}
