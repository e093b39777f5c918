package indicator

import "github.com/rxtech-lab/papertrade/internal/types"

// MACD periods (12, 26, 9) and the minimum series length for a usable value.
const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9

	// MinMACDPoints is the number of data points required before MACD stops
	// returning degenerate values (slow period + signal period).
	MinMACDPoints = 35
)

// MACD calculates the Moving Average Convergence Divergence values at the
// latest point: line = EMA(12) - EMA(26), signal = EMA(9) of the line,
// histogram = line - signal, all rounded to 4 decimals. Series below
// MinMACDPoints return zeroed values; if the line itself is too short for a
// signal EMA, histogram degrades to the line value.
func MACD(prices []float64) types.MACDValue {
	line := macdLine(prices)
	if line == nil {
		return types.MACDValue{Line: 0, Signal: 0, Histogram: 0}
	}

	last := line[len(line)-1]

	if len(line) < macdSignalPeriod {
		return types.MACDValue{
			Line:      roundTo(last, 4),
			Signal:    0,
			Histogram: roundTo(last, 4),
		}
	}

	signalSeries := EMA(line, macdSignalPeriod)
	signal := signalSeries[len(signalSeries)-1]

	return types.MACDValue{
		Line:      roundTo(last, 4),
		Signal:    roundTo(signal, 4),
		Histogram: roundTo(last-signal, 4),
	}
}

// MACDCrossover detects a sign flip of the MACD line between the last two
// points: negative to positive is a bullish crossover, positive to negative
// bearish. Anything else, including short series, is no crossover.
func MACDCrossover(prices []float64) string {
	line := macdLine(prices)
	if len(line) < 2 {
		return types.MACDCrossoverNone
	}

	prev := line[len(line)-2]
	cur := line[len(line)-1]

	switch {
	case prev <= 0 && cur > 0:
		return types.MACDCrossoverBullish
	case prev >= 0 && cur < 0:
		return types.MACDCrossoverBearish
	default:
		return types.MACDCrossoverNone
	}
}

// macdLine computes the MACD line series, aligning the fast EMA to the slow
// EMA start (the fast series is longer by the period difference). Returns nil
// when the price series is below MinMACDPoints.
func macdLine(prices []float64) []float64 {
	if len(prices) < MinMACDPoints {
		return nil
	}

	fast := EMA(prices, macdFastPeriod)
	slow := EMA(prices, macdSlowPeriod)

	offset := len(fast) - len(slow)

	line := make([]float64, len(slow))
	for i := range slow {
		line[i] = fast[i+offset] - slow[i]
	}

	return line
}
