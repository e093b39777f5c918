package types

import "time"

// PricePoint is a single observation in a price series.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Price     float64   `json:"price" yaml:"price"`
}

// PriceQuote is the latest market snapshot for a symbol.
type PriceQuote struct {
	Symbol    string  `json:"symbol" yaml:"symbol"`
	Price     float64 `json:"price" yaml:"price"`
	Change24h float64 `json:"change_24h" yaml:"change_24h"`
	Volume24h float64 `json:"volume_24h" yaml:"volume_24h"`
	MarketCap float64 `json:"market_cap" yaml:"market_cap"`
}

// PriceMap holds the latest quote per symbol for a single tick.
type PriceMap map[string]PriceQuote

// Price returns the quoted price for a symbol and whether a quote exists.
func (m PriceMap) Price(symbol string) (float64, bool) {
	quote, ok := m[symbol]
	if !ok {
		return 0, false
	}

	return quote.Price, true
}
