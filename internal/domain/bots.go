package domain

// Bot describes one of the fixed trading bots known to the dashboard.
type Bot struct {
	ID    int
	Label string
}

// Bots is the fixed bot set, in display order. Scanner payloads referencing
// ids outside this set are dropped by the Store.
var Bots = []Bot{
	{ID: 1, Label: "Bot #1 - Even/Odd"},
	{ID: 2, Label: "Bot #2 - Over/Under"},
	{ID: 3, Label: "Bot #3 - Berlin X9"},
	{ID: 4, Label: "Bot #4 - BeastO7"},
	{ID: 5, Label: "Bot #5 - Gas Hunter"},
	{ID: 6, Label: "Bot #6 - Hawk Under5"},
	{ID: 7, Label: "Bot #7 - Even Streak"},
}

// MarketColumns is the fixed column order used when rendering scanner rows.
// The Store itself accepts any market symbol.
var MarketColumns = []string{"V75", "V100", "V50", "V25", "V10"}

// KnownBot reports whether id belongs to the fixed bot set.
func KnownBot(id int) bool {
	for _, b := range Bots {
		if b.ID == id {
			return true
		}
	}
	return false
}
