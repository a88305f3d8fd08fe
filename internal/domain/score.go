package domain

// ScoreMatrix maps bot id -> market symbol -> scanner score (0-100).
// A missing market entry means the scanner produced no score for it.
type ScoreMatrix map[int]map[string]int

// EligibilityThreshold is the single gate controlling whether a "trade now"
// action is enabled for a bot row.
const EligibilityThreshold = 65

// Band is the display band for a scanner score.
type Band int

const (
	BandNone Band = iota // no score present
	BandPoor
	BandFair
	BandGood
	BandExcellent
)

func (b Band) String() string {
	switch b {
	case BandPoor:
		return "poor"
	case BandFair:
		return "fair"
	case BandGood:
		return "good"
	case BandExcellent:
		return "excellent"
	default:
		return "none"
	}
}

// ScoreBand maps a present score to its display band. Lower bounds are
// inclusive, upper bounds exclusive, except the top band which includes 100.
// Absent scores are BandNone (see CellBand).
func ScoreBand(score int) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= EligibilityThreshold:
		return BandGood
	case score >= 50:
		return BandFair
	default:
		return BandPoor
	}
}

// CellBand is ScoreBand extended over absent scores.
func CellBand(score int, present bool) Band {
	if !present {
		return BandNone
	}
	return ScoreBand(score)
}

// Eligible reports whether a bot with the given per-market scores may trade:
// true iff at least one score reaches the threshold. An empty or nil map is
// not eligible, which makes a bot absent from the matrix equivalent to a bot
// with no scores.
func Eligible(scores map[string]int) bool {
	for _, s := range scores {
		if s >= EligibilityThreshold {
			return true
		}
	}
	return false
}
