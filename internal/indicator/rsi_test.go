package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestShortSeriesReturnsNeutral() {
	// Any series shorter than period+1 points must return exactly 50.0.
	for n := 0; n <= DefaultRSIPeriod; n++ {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = 100 + float64(i)
		}

		suite.Equal(50.0, RSI(prices, DefaultRSIPeriod), "series length %d", n)
	}
}

func (suite *RSITestSuite) TestAllGainsReturnsHundred() {
	prices := make([]float64, DefaultRSIPeriod+1)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	suite.Equal(100.0, RSI(prices, DefaultRSIPeriod))
}

func (suite *RSITestSuite) TestKnownValue() {
	// Trailing 2 deltas: -0.5 and +1.0 -> avgGain 0.5, avgLoss 0.25,
	// RS = 2, RSI = 100 - 100/3 = 66.7 after rounding.
	prices := []float64{1, 2, 1.5, 2.5}
	suite.Equal(66.7, RSI(prices, 2))
}

func (suite *RSITestSuite) TestBounds() {
	prices := []float64{50, 48, 52, 47, 53, 51, 49, 54, 46, 55, 50, 52, 48, 53, 49, 51}
	rsi := RSI(prices, DefaultRSIPeriod)
	suite.GreaterOrEqual(rsi, 0.0)
	suite.LessOrEqual(rsi, 100.0)
}

func (suite *RSITestSuite) TestNonPositivePeriodDefaults() {
	prices := make([]float64, DefaultRSIPeriod+1)
	for i := range prices {
		prices[i] = float64(i)
	}

	suite.Equal(RSI(prices, DefaultRSIPeriod), RSI(prices, 0))
}
