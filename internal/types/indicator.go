package types

// Qualitative signal labels derived from indicator values.
const (
	SignalOverbought = "overbought"
	SignalOversold   = "oversold"
	SignalNeutral    = "neutral"

	CrossoverBullish = "bullish"
	CrossoverBearish = "bearish"

	MACDCrossoverBullish = "bullish_crossover"
	MACDCrossoverBearish = "bearish_crossover"
	MACDCrossoverNone    = "no_cross"

	MomentumAccelerating = "accelerating"
	MomentumDecelerating = "decelerating"
	MomentumStable       = "stable"
)

// MACDValue holds the three MACD series values at the latest point.
type MACDValue struct {
	Line      float64 `json:"macd" yaml:"macd"`
	Signal    float64 `json:"signal" yaml:"signal"`
	Histogram float64 `json:"histogram" yaml:"histogram"`
}

// BollingerBands holds the band levels at the latest point.
// Invariant: Upper >= Middle >= Lower.
type BollingerBands struct {
	Upper        float64 `json:"upper" yaml:"upper"`
	Middle       float64 `json:"middle" yaml:"middle"`
	Lower        float64 `json:"lower" yaml:"lower"`
	WidthPercent float64 `json:"width_percent" yaml:"width_percent"`
}

// IndicatorSnapshot is the full per-symbol indicator readout consumed by the
// advisory collaborator. A non-empty Err tags the snapshot as unavailable;
// consumers fall back to neutral defaults instead of failing.
type IndicatorSnapshot struct {
	Symbol        string         `json:"symbol" yaml:"symbol"`
	RSI           float64        `json:"rsi" yaml:"rsi"`
	RSISignal     string         `json:"rsi_signal" yaml:"rsi_signal"`
	MACD          MACDValue      `json:"macd" yaml:"macd"`
	MACDSignal    string         `json:"macd_signal" yaml:"macd_signal"`
	MACDCrossover string         `json:"macd_crossover" yaml:"macd_crossover"`
	Bollinger     BollingerBands `json:"bollinger_bands" yaml:"bollinger_bands"`
	BandSignal    string         `json:"bb_signal" yaml:"bb_signal"`
	EMA9          float64        `json:"ema9" yaml:"ema9"`
	EMA21         float64        `json:"ema21" yaml:"ema21"`
	EMACrossover  string         `json:"ema_crossover" yaml:"ema_crossover"`
	MomentumTrend string         `json:"momentum_trend" yaml:"momentum_trend"`
	Err           string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Available reports whether the snapshot carries usable indicator values.
func (s IndicatorSnapshot) Available() bool {
	return s.Err == ""
}
