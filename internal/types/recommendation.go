package types

type RecommendationAction string

const (
	ActionLong  RecommendationAction = "long"
	ActionShort RecommendationAction = "short"
	ActionWait  RecommendationAction = "wait"
)

// Market stance labels emitted by the advisory collaborator.
const (
	StanceAggressive   = "aggressive"
	StanceModerate     = "moderate"
	StanceConservative = "conservative"
	StanceAvoid        = "avoid"
)

// Recommendation is a single trade suggestion from the external advisory
// process. It is read-only input; the coordinator clamps and defaults fields
// rather than rejecting the whole batch.
type Recommendation struct {
	Symbol          string               `json:"symbol" yaml:"symbol"`
	Action          RecommendationAction `json:"action" yaml:"action"`
	Confidence      int                  `json:"confidence" yaml:"confidence"`
	Leverage        int                  `json:"leverage" yaml:"leverage"`
	EntryPrice      float64              `json:"entry_price" yaml:"entry_price"`
	TakeProfitPrice float64              `json:"take_profit_price" yaml:"take_profit_price"`
	StopLossPrice   float64              `json:"stop_loss_price" yaml:"stop_loss_price"`
	Reasoning       string               `json:"reasoning" yaml:"reasoning"`
}

// RecommendationSet is the full advisory response for one cycle.
type RecommendationSet struct {
	Recommendations     []Recommendation `json:"recommendations" yaml:"recommendations"`
	OverallMarketStance string           `json:"overall_market_stance" yaml:"overall_market_stance"`
	PortfolioAdvice     string           `json:"portfolio_advice" yaml:"portfolio_advice"`
}
