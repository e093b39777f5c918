package indicator

import (
	"testing"

	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestShortSeriesReturnsZeroes() {
	prices := make([]float64, MinMACDPoints-1)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	macd := MACD(prices)
	suite.Equal(types.MACDValue{Line: 0, Signal: 0, Histogram: 0}, macd)
	suite.Equal(types.MACDCrossoverNone, MACDCrossover(prices))
}

func (suite *MACDTestSuite) TestConstantSeriesIsFlat() {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 250.0
	}

	macd := MACD(prices)
	suite.InDelta(0.0, macd.Line, 1e-9)
	suite.InDelta(0.0, macd.Signal, 1e-9)
	suite.InDelta(0.0, macd.Histogram, 1e-9)
}

func (suite *MACDTestSuite) TestTrendingSeriesSign() {
	rising := make([]float64, 60)
	falling := make([]float64, 60)

	for i := range rising {
		rising[i] = 100 + float64(i)
		falling[i] = 200 - float64(i)
	}

	// The fast EMA tracks price more closely, so a steady uptrend keeps the
	// MACD line positive and a downtrend keeps it negative.
	suite.Positive(MACD(rising).Line)
	suite.Negative(MACD(falling).Line)

	// No sign flip in a steady trend.
	suite.Equal(types.MACDCrossoverNone, MACDCrossover(rising))
	suite.Equal(types.MACDCrossoverNone, MACDCrossover(falling))
}

func (suite *MACDTestSuite) TestDeterministic() {
	prices := make([]float64, 80)
	for i := range prices {
		prices[i] = 100 + float64(i%13) - float64(i%7)
	}

	suite.Equal(MACD(prices), MACD(prices))
	suite.Equal(MACDCrossover(prices), MACDCrossover(prices))
}

func (suite *MACDTestSuite) TestHistogramIsLineMinusSignal() {
	prices := make([]float64, 70)
	for i := range prices {
		prices[i] = 100 + float64(i%11)
	}

	macd := MACD(prices)
	suite.InDelta(macd.Line-macd.Signal, macd.Histogram, 1e-3)
}
