package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type EMATestSuite struct {
	suite.Suite
}

func TestEMASuite(t *testing.T) {
	suite.Run(t, new(EMATestSuite))
}

func (suite *EMATestSuite) TestShortSeriesReturnedUnchanged() {
	prices := []float64{1, 2, 3}
	out := EMA(prices, 5)
	suite.Equal(prices, out)

	// The result must be a copy, not the input slice.
	out[0] = 99
	suite.Equal(1.0, prices[0])
}

func (suite *EMATestSuite) TestSeedAndRecurrence() {
	// period 2: seed = (1+2)/2 = 1.5, multiplier = 2/3.
	// next = (3-1.5)*2/3 + 1.5 = 2.5, then (4-2.5)*2/3 + 2.5 = 3.5.
	out := EMA([]float64{1, 2, 3, 4}, 2)
	suite.InDeltaSlice([]float64{1.5, 2.5, 3.5}, out, 1e-9)
}

func (suite *EMATestSuite) TestConstantSeries() {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 42.0
	}

	out := EMA(prices, 9)
	for _, v := range out {
		suite.InDelta(42.0, v, 1e-9)
	}
}

func (suite *EMATestSuite) TestDeterministic() {
	prices := []float64{10, 11, 9, 12, 8, 13, 10, 11, 12, 9, 10, 14}
	first := EMA(prices, 5)
	second := EMA(prices, 5)
	suite.Equal(first, second)
}

func (suite *EMATestSuite) TestSMA() {
	suite.Equal(0.0, SMA(nil))
	suite.Equal(2.0, SMA([]float64{1, 2, 3}))
}
