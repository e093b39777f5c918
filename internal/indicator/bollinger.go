package indicator

import (
	"math"

	"github.com/rxtech-lab/papertrade/internal/types"
)

// Default Bollinger Band parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerStdDev = 2.0
)

// Bollinger calculates Bollinger Bands over the trailing period: simple
// moving average plus/minus stdDev population standard deviations, rounded to
// 2 decimals. Series shorter than the period collapse all three bands to the
// current price with zero width.
func Bollinger(prices []float64, period int, stdDev float64) types.BollingerBands {
	current := 0.0
	if len(prices) > 0 {
		current = prices[len(prices)-1]
	}

	if period <= 0 || len(prices) < period {
		return types.BollingerBands{
			Upper:        current,
			Middle:       current,
			Lower:        current,
			WidthPercent: 0,
		}
	}

	recent := prices[len(prices)-period:]
	sma := SMA(recent)

	variance := 0.0
	for _, p := range recent {
		variance += (p - sma) * (p - sma)
	}

	variance /= float64(period)
	sigma := math.Sqrt(variance)

	upper := sma + stdDev*sigma
	lower := sma - stdDev*sigma

	widthPercent := 0.0
	if sma != 0 {
		widthPercent = (upper - lower) / sma * 100
	}

	return types.BollingerBands{
		Upper:        roundTo(upper, 2),
		Middle:       roundTo(sma, 2),
		Lower:        roundTo(lower, 2),
		WidthPercent: roundTo(widthPercent, 2),
	}
}
