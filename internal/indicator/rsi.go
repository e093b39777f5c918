package indicator

// DefaultRSIPeriod is the standard lookback for the Relative Strength Index.
const DefaultRSIPeriod = 14

// RSINeutral is returned when the series is too short to compute RSI.
const RSINeutral = 50.0

// RSI calculates the Relative Strength Index over the trailing period deltas.
// Series shorter than period+1 points return the neutral default of 50.0.
// A series with zero average loss returns 100.0 (perfect uptrend).
// The result is rounded to 1 decimal and always falls in [0, 100].
func RSI(prices []float64, period int) float64 {
	if period <= 0 {
		period = DefaultRSIPeriod
	}

	if len(prices) < period+1 {
		return RSINeutral
	}

	gains := make([]float64, 0, len(prices)-1)
	losses := make([]float64, 0, len(prices)-1)

	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	avgGain := 0.0
	avgLoss := 0.0

	// Trailing window: only the most recent `period` deltas count.
	for i := len(gains) - period; i < len(gains); i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss

	return roundTo(100-(100/(1+rs)), 1)
}
