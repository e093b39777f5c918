package executor

import (
	"testing"

	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/rxtech-lab/papertrade/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DecodeTestSuite struct {
	suite.Suite
}

func TestDecodeSuite(t *testing.T) {
	suite.Run(t, new(DecodeTestSuite))
}

const validPayload = `{
	"recommendations": [
		{
			"symbol": "BTC",
			"action": "long",
			"confidence": 75,
			"leverage": 3,
			"entry_price": 50000,
			"take_profit_price": 53000,
			"stop_loss_price": 48500,
			"reasoning": "bullish crossover"
		}
	],
	"overall_market_stance": "moderate",
	"portfolio_advice": "keep exposure light"
}`

func (suite *DecodeTestSuite) TestDecodesPlainJSON() {
	set, err := DecodeRecommendations(validPayload)
	suite.Require().NoError(err)

	suite.Require().Len(set.Recommendations, 1)
	suite.Equal("BTC", set.Recommendations[0].Symbol)
	suite.Equal(types.ActionLong, set.Recommendations[0].Action)
	suite.Equal(3, set.Recommendations[0].Leverage)
	suite.Equal(types.StanceModerate, set.OverallMarketStance)
}

func (suite *DecodeTestSuite) TestStripsMarkdownFence() {
	set, err := DecodeRecommendations("```json\n" + validPayload + "\n```")
	suite.Require().NoError(err)
	suite.Len(set.Recommendations, 1)
}

func (suite *DecodeTestSuite) TestStripsBareFence() {
	set, err := DecodeRecommendations("```\n" + validPayload + "\n```")
	suite.Require().NoError(err)
	suite.Len(set.Recommendations, 1)
}

func (suite *DecodeTestSuite) TestRepairsTrailingComma() {
	payload := `{
		"recommendations": [
			{"symbol": "ETH", "action": "short", "confidence": 60, "leverage": 2,},
		],
		"overall_market_stance": "conservative",
	}`

	set, err := DecodeRecommendations(payload)
	suite.Require().NoError(err)
	suite.Require().Len(set.Recommendations, 1)
	suite.Equal("ETH", set.Recommendations[0].Symbol)
	suite.Equal(types.ActionShort, set.Recommendations[0].Action)
}

func (suite *DecodeTestSuite) TestUnparseablePayloadFallsBack() {
	set, err := DecodeRecommendations("the market looks scary, no trades today")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMalformedRecommendation))

	suite.Empty(set.Recommendations)
	suite.Equal(types.StanceAvoid, set.OverallMarketStance)
}

func (suite *DecodeTestSuite) TestFallbackRecommendations() {
	set := FallbackRecommendations()
	suite.NotNil(set.Recommendations)
	suite.Empty(set.Recommendations)
	suite.Equal(types.StanceAvoid, set.OverallMarketStance)
	suite.NotEmpty(set.PortfolioAdvice)
}
