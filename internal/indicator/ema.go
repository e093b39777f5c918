package indicator

import "math"

// SMA calculates the simple average of the given prices.
func SMA(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}

	sum := 0.0
	for _, p := range prices {
		sum += p
	}

	return sum / float64(len(prices))
}

// EMA calculates the Exponential Moving Average series for the given period.
// The first EMA value is seeded with the simple average of the first `period`
// prices; subsequent values use the recurrence
//
//	ema[i] = (price[i] - ema[i-1]) * k + ema[i-1], k = 2/(period+1)
//
// Series shorter than the period are returned unchanged (a copy), matching
// the degenerate behavior downstream consumers rely on.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		out := make([]float64, len(prices))
		copy(out, prices)

		return out
	}

	multiplier := 2.0 / float64(period+1)

	ema := make([]float64, 0, len(prices)-period+1)
	ema = append(ema, SMA(prices[:period]))

	for _, price := range prices[period:] {
		prev := ema[len(ema)-1]
		ema = append(ema, (price-prev)*multiplier+prev)
	}

	return ema
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))

	return math.Round(v*factor) / factor
}
