package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"vdash/internal/domain"
)

const (
	ansiReset    = "\033[0m"
	ansiRed      = "\033[31m"
	ansiGreen    = "\033[32m"
	ansiYellow   = "\033[33m"
	ansiCyan     = "\033[36m"
	ansiDim      = "\033[2m"
	ansiClearEOL = "\033[K"
)

func colorize(s, c string) string { return c + s + ansiReset }

// BuildScannerRows derives display rows from a score matrix: fixed bot order,
// fixed market column order, bands and the per-bot eligibility gate. Pure;
// the same matrix always yields identical rows.
func BuildScannerRows(matrix domain.ScoreMatrix) []ScannerRow {
	rows := make([]ScannerRow, 0, len(domain.Bots))
	for _, bot := range domain.Bots {
		scores := matrix[bot.ID] // nil for an absent bot, same as empty
		cells := make([]ScoreCell, 0, len(domain.MarketColumns))
		for _, market := range domain.MarketColumns {
			score, present := scores[market]
			cells = append(cells, ScoreCell{
				Market:  market,
				Score:   score,
				Present: present,
				Band:    domain.CellBand(score, present),
			})
		}
		rows = append(rows, ScannerRow{
			Bot:      bot,
			Cells:    cells,
			CanTrade: domain.Eligible(scores),
		})
	}
	return rows
}

// Formatter renders Store snapshots into terminal lines for the Sink.
type Formatter struct{}

func NewFormatter() *Formatter { return &Formatter{} }

// RenderLive produces the compact one-line dashboard: liveness, balance and
// the market strip.
func (f *Formatter) RenderLive(snap domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("\r")
	sb.WriteString(colorize("[VDASH] ", ansiDim))

	if snap.Connected {
		sb.WriteString(colorize("LIVE", ansiGreen))
	} else {
		sb.WriteString(colorize("OFFLINE", ansiRed))
	}
	sb.WriteString(colorize(" | ", ansiDim))
	sb.WriteString(fmt.Sprintf("$%.2f", snap.Balance))

	for _, sym := range marketOrder(snap.Markets) {
		q := snap.Markets[sym]
		sb.WriteString(colorize("  ||  ", ansiDim))
		sb.WriteString(sym)
		sb.WriteString(" ")
		sb.WriteString(fmt.Sprintf("%.4f", q.Price))
		sb.WriteString(" ")
		sb.WriteString(colorize(changeCell(q.ChangePct), changeColor(q.ChangePct)))
	}

	sb.WriteString(ansiClearEOL)
	return sb.String()
}

// RenderSnapshot produces the full multi-line dashboard: markets, scanner
// table and signal list.
func (f *Formatter) RenderSnapshot(snap domain.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("balance $%.2f", snap.Balance))
	if snap.Connected {
		sb.WriteString(" [live]")
	} else {
		sb.WriteString(" [disconnected]")
	}
	sb.WriteString("\n")

	for _, sym := range marketOrder(snap.Markets) {
		q := snap.Markets[sym]
		sb.WriteString(fmt.Sprintf("  %-5s $%.4f  %s  RSI(14): %.1f\n",
			sym, q.Price, changeCell(q.ChangePct), q.RSI14))
	}

	for _, row := range BuildScannerRows(snap.Scanner) {
		sb.WriteString("  ")
		sb.WriteString(fmt.Sprintf("%-22s", row.Bot.Label))
		for _, cell := range row.Cells {
			sb.WriteString(" ")
			sb.WriteString(colorize(scoreCellText(cell), bandColor(cell.Band)))
		}
		if row.CanTrade {
			sb.WriteString(colorize("  [trade now]", ansiGreen))
		}
		sb.WriteString("\n")
	}

	if len(snap.Signals) == 0 {
		sb.WriteString(colorize("  no active signals\n", ansiDim))
	}
	for _, sig := range snap.Signals {
		dirCol := ansiGreen
		if sig.Direction == domain.DirectionFall {
			dirCol = ansiRed
		}
		sb.WriteString(fmt.Sprintf("  signal %s %s %s score=%d  %s\n",
			sig.ID, colorize(string(sig.Direction), dirCol), sig.Market, sig.Score, sig.Reason))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func scoreCellText(cell ScoreCell) string {
	if !cell.Present {
		return "  -"
	}
	return fmt.Sprintf("%3d", cell.Score)
}

func bandColor(b domain.Band) string {
	switch b {
	case domain.BandExcellent:
		return ansiCyan
	case domain.BandGood:
		return ansiGreen
	case domain.BandFair:
		return ansiYellow
	case domain.BandPoor:
		return ansiRed
	default:
		return ansiDim
	}
}

func changeCell(pct float64) string {
	arrow := "▲"
	if pct < 0 {
		arrow = "▼"
	}
	if pct < 0 {
		pct = -pct
	}
	return fmt.Sprintf("%s %.2f%%", arrow, pct)
}

func changeColor(pct float64) string {
	if pct < 0 {
		return ansiRed
	}
	return ansiGreen
}

// marketOrder lists symbols in the fixed column order first, then any extra
// symbols alphabetically.
func marketOrder(markets map[string]domain.MarketQuote) []string {
	out := make([]string, 0, len(markets))
	seen := make(map[string]struct{}, len(markets))
	for _, sym := range domain.MarketColumns {
		if _, ok := markets[sym]; ok {
			out = append(out, sym)
			seen[sym] = struct{}{}
		}
	}
	var extra []string
	for sym := range markets {
		if _, ok := seen[sym]; !ok {
			extra = append(extra, sym)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
