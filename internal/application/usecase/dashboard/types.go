package dashboard

import (
	"vdash/internal/application/port"
	"vdash/internal/domain"
)

type Repository = port.Repository

// ScoreCell is one market column of a scanner row.
type ScoreCell struct {
	Market  string
	Score   int
	Present bool
	Band    domain.Band
}

// ScannerRow is the display-ready judgment for one bot: banded per-market
// scores plus the trade-eligibility gate.
type ScannerRow struct {
	Bot      domain.Bot
	Cells    []ScoreCell
	CanTrade bool
}
