package indicator

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/samber/lo"
)

// EMA crossover periods used for the derived trend signal.
const (
	fastTrendPeriod = 9
	slowTrendPeriod = 21
)

// MinSnapshotPoints is the minimum history length for a usable snapshot.
const MinSnapshotPoints = 15

// momentumWindow is the number of points in each half of the momentum
// comparison (recent window vs the window before it).
const momentumWindow = 7

// Unavailable returns a tagged snapshot marking indicators as unavailable for
// the symbol. Downstream consumers must treat it as "use neutral defaults",
// never as a reason to fail the pipeline.
func Unavailable(symbol, reason string) types.IndicatorSnapshot {
	return types.IndicatorSnapshot{
		Symbol: symbol,
		Err:    reason,
	}
}

// Snapshot computes the full indicator readout for one symbol from its
// chronological price history. Histories shorter than MinSnapshotPoints yield
// a tagged unavailable snapshot.
func Snapshot(symbol string, points []types.PricePoint) types.IndicatorSnapshot {
	prices := lo.Map(points, func(p types.PricePoint, _ int) float64 {
		return p.Price
	})

	if len(prices) < MinSnapshotPoints {
		return Unavailable(symbol, "insufficient price history")
	}

	rsi := RSI(prices, DefaultRSIPeriod)
	macd := MACD(prices)
	bands := Bollinger(prices, DefaultBollingerPeriod, DefaultBollingerStdDev)

	fastSeries := EMA(prices, fastTrendPeriod)
	slowSeries := EMA(prices, slowTrendPeriod)
	ema9 := fastSeries[len(fastSeries)-1]
	ema21 := slowSeries[len(slowSeries)-1]

	emaCrossover := types.CrossoverBearish
	if ema9 > ema21 {
		emaCrossover = types.CrossoverBullish
	}

	macdSignal := types.CrossoverBearish
	if macd.Histogram > 0 {
		macdSignal = types.CrossoverBullish
	}

	current := prices[len(prices)-1]

	return types.IndicatorSnapshot{
		Symbol:        symbol,
		RSI:           rsi,
		RSISignal:     rsiSignal(rsi),
		MACD:          macd,
		MACDSignal:    macdSignal,
		MACDCrossover: MACDCrossover(prices),
		Bollinger:     bands,
		BandSignal:    bandSignal(current, bands),
		EMA9:          roundTo(ema9, 2),
		EMA21:         roundTo(ema21, 2),
		EMACrossover:  emaCrossover,
		MomentumTrend: momentumTrend(prices),
	}
}

func rsiSignal(rsi float64) string {
	switch {
	case rsi >= 70:
		return types.SignalOverbought
	case rsi <= 30:
		return types.SignalOversold
	default:
		return types.SignalNeutral
	}
}

// bandSignal classifies the current price against the Bollinger Bands. Inside
// the band, the label carries the percentage position measured from the lower
// band.
func bandSignal(current float64, bands types.BollingerBands) string {
	if current > bands.Upper {
		return "overbought (above upper band)"
	}

	if current < bands.Lower {
		return "oversold (below lower band)"
	}

	bandRange := bands.Upper - bands.Lower

	posPct := 50.0
	if bandRange != 0 {
		posPct = (current - bands.Lower) / bandRange * 100
	}

	return fmt.Sprintf("in_band (%.0f%% from lower)", posPct)
}

// momentumTrend compares the magnitude of the most recent 7-point price
// change against the prior 7-point window: more than 1.5x is accelerating,
// less than 0.5x decelerating.
func momentumTrend(prices []float64) string {
	if len(prices) < 2*momentumWindow {
		return types.MomentumStable
	}

	recent := prices[len(prices)-momentumWindow:]
	prior := prices[len(prices)-2*momentumWindow : len(prices)-momentumWindow]

	recentChange := (recent[len(recent)-1] - recent[0]) / recent[0] * 100
	priorChange := (prior[len(prior)-1] - prior[0]) / prior[0] * 100

	switch {
	case math.Abs(recentChange) > math.Abs(priorChange)*1.5:
		return types.MomentumAccelerating
	case math.Abs(recentChange) < math.Abs(priorChange)*0.5:
		return types.MomentumDecelerating
	default:
		return types.MomentumStable
	}
}
