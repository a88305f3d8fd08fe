package domain

// MarketQuote is the latest quote for a single market. Quotes are replaced
// wholesale per update; fields are never merged individually.
type MarketQuote struct {
	Price     float64 // last price, positive
	ChangePct float64 // percent change, signed
	RSI14     float64 // RSI(14) technical indicator
}
