package executor

import (
	"github.com/rxtech-lab/papertrade/internal/ledger"
	"github.com/rxtech-lab/papertrade/internal/logger"
	"github.com/rxtech-lab/papertrade/internal/types"
	"go.uber.org/zap"
)

// Leverage bounds applied to every recommendation before opening.
const (
	minLeverage = 1
	maxLeverage = 10
)

// Default trigger distance when a recommendation omits its levels.
const (
	defaultTakeProfitFactor = 1.05
	defaultStopLossFactor   = 0.95
)

// Coordinator turns advisory recommendations into ledger operations.
type Coordinator struct {
	ledger        *ledger.PositionLedger
	logger        *logger.Logger
	sizingPercent float64
}

func NewCoordinator(ledger *ledger.PositionLedger, logger *logger.Logger) *Coordinator {
	return &Coordinator{
		ledger: ledger,
		logger: logger,
	}
}

// WithSizingPercent overrides the ledger's default margin sizing for opens
// made by this coordinator.
func (c *Coordinator) WithSizingPercent(percent float64) *Coordinator {
	c.sizingPercent = percent
	return c
}

// AutoExecute opens a position for every actionable recommendation. A
// recommendation is skipped when its action is wait, its symbol has no quote,
// or a position for the symbol already exists; opens earlier in the batch
// count as existing for later recommendations. Open failures are logged and
// skipped so one symbol cannot sink the batch. Returns the opened positions.
func (c *Coordinator) AutoExecute(set types.RecommendationSet, prices types.PriceMap) []types.Position {
	existing := make(map[string]bool)
	for _, pos := range c.ledger.GetPortfolio().Positions {
		existing[pos.Symbol] = true
	}

	var opened []types.Position

	for _, rec := range set.Recommendations {
		if rec.Action == types.ActionWait || rec.Symbol == "" {
			continue
		}

		quote, ok := prices.Price(rec.Symbol)
		if !ok || quote <= 0 {
			c.logger.Debug("Skipping recommendation without quote", zap.String("symbol", rec.Symbol))
			continue
		}

		if existing[rec.Symbol] {
			c.logger.Debug("Skipping recommendation with open position", zap.String("symbol", rec.Symbol))
			continue
		}

		req := openRequestFor(rec, quote)
		req.SizingPercent = c.sizingPercent

		pos, err := c.ledger.Open(req)
		if err != nil {
			c.logger.Warn("Failed to open position for recommendation",
				zap.String("symbol", rec.Symbol),
				zap.Error(err),
			)

			continue
		}

		opened = append(opened, pos)
		existing[rec.Symbol] = true
	}

	return opened
}

// openRequestFor normalizes a recommendation: the entry is always the live
// quote, leverage is clamped and missing trigger levels default to 5% away
// from entry.
func openRequestFor(rec types.Recommendation, quote float64) ledger.OpenRequest {
	leverage := rec.Leverage
	if leverage < minLeverage {
		leverage = minLeverage
	}

	if leverage > maxLeverage {
		leverage = maxLeverage
	}

	takeProfit := rec.TakeProfitPrice
	if takeProfit <= 0 {
		takeProfit = quote * defaultTakeProfitFactor
	}

	stopLoss := rec.StopLossPrice
	if stopLoss <= 0 {
		stopLoss = quote * defaultStopLossFactor
	}

	confidence := rec.Confidence
	if confidence <= 0 {
		confidence = 50
	}

	reasoning := rec.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}

	direction := types.DirectionLong
	if rec.Action == types.ActionShort {
		direction = types.DirectionShort
	}

	return ledger.OpenRequest{
		Symbol:          rec.Symbol,
		Direction:       direction,
		EntryPrice:      quote,
		Leverage:        leverage,
		TakeProfitPrice: takeProfit,
		StopLossPrice:   stopLoss,
		Confidence:      confidence,
		Reasoning:       reasoning,
	}
}
