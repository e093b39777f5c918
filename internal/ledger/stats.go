package ledger

import (
	"fmt"
	"sort"

	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// recentTradeWindow is how many trades per symbol and direction the pattern
// scan looks back over, and patternWindow how many of those must agree.
const (
	recentTradeWindow = 5
	patternWindow     = 3
)

// GetPerformanceStats summarizes the portfolio for reporting.
func (l *PositionLedger) GetPerformanceStats() types.PerformanceStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p := l.portfolio

	winRate := 0.0
	if p.Stats.TotalTrades > 0 {
		winRate = float64(p.Stats.WinningTrades) / float64(p.Stats.TotalTrades) * 100
	}

	totalReturn := 0.0
	if p.InitialBalance != 0 {
		totalReturn = (p.Balance - p.InitialBalance) / p.InitialBalance * 100
	}

	return types.PerformanceStats{
		CurrentBalance:     p.Balance,
		InitialBalance:     p.InitialBalance,
		TotalReturnPercent: round2(totalReturn),
		TotalPnL:           p.Stats.TotalPnL,
		TotalTrades:        p.Stats.TotalTrades,
		WinningTrades:      p.Stats.WinningTrades,
		LosingTrades:       p.Stats.LosingTrades,
		WinRate:            round1(winRate),
		OpenPositions:      len(p.Positions),
		HistoryCount:       len(p.History),
	}
}

// GetPerformanceContext derives the feedback summary handed to the external
// advisory process: overall and per-symbol win rates, the last trades per
// symbol, and repeated stop-loss or take-profit streaks.
func (l *PositionLedger) GetPerformanceContext() types.PerformanceContext {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := l.portfolio.History
	if len(history) == 0 {
		return types.PerformanceContext{HasHistory: false}
	}

	wins := lo.CountBy(history, func(t types.ClosedTrade) bool {
		return t.WasProfitable
	})

	bySymbol := lo.GroupBy(history, func(t types.ClosedTrade) string {
		return t.Symbol
	})

	perSymbol := make(map[string]types.SymbolPerformance, len(bySymbol))

	for symbol, trades := range bySymbol {
		symbolWins := lo.CountBy(trades, func(t types.ClosedTrade) bool {
			return t.WasProfitable
		})

		recent := lastN(trades, patternWindow)

		perSymbol[symbol] = types.SymbolPerformance{
			WinRate:    round1(float64(symbolWins) / float64(len(trades)) * 100),
			TradeCount: len(trades),
			RecentTrades: lo.Map(recent, func(t types.ClosedTrade, _ int) types.RecentTrade {
				return types.RecentTrade{
					Direction:          t.Direction,
					CloseReason:        t.CloseReason,
					RealizedPnLPercent: t.RealizedPnLPercent,
				}
			}),
		}
	}

	return types.PerformanceContext{
		HasHistory:        true,
		TotalClosedTrades: len(history),
		OverallWinRate:    round1(float64(wins) / float64(len(history)) * 100),
		PerSymbol:         perSymbol,
		Patterns:          detectPatterns(history),
	}
}

// detectPatterns flags symbol+direction pairs whose recent closes keep
// hitting the same trigger. It scans the most recent trades per pair and
// reports when at least 2 of the last 3 ended on stop-loss or take-profit.
func detectPatterns(history []types.ClosedTrade) []string {
	byPair := lo.GroupBy(history, func(t types.ClosedTrade) string {
		return t.Symbol + " " + string(t.Direction)
	})

	pairs := lo.Keys(byPair)
	sort.Strings(pairs)

	var patterns []string

	for _, pair := range pairs {
		trades := lastN(byPair[pair], recentTradeWindow)
		window := lastN(trades, patternWindow)

		if len(window) < 2 {
			continue
		}

		slHits := lo.CountBy(window, func(t types.ClosedTrade) bool {
			return t.CloseReason == types.CloseReasonStopLoss
		})
		tpHits := lo.CountBy(window, func(t types.ClosedTrade) bool {
			return t.CloseReason == types.CloseReasonTakeProfit
		})

		if slHits >= 2 {
			patterns = append(patterns, fmt.Sprintf("%s: %d of last %d trades hit stop-loss", pair, slHits, len(window)))
		} else if tpHits >= 2 {
			patterns = append(patterns, fmt.Sprintf("%s: %d of last %d trades hit take-profit", pair, tpHits, len(window)))
		}
	}

	return patterns
}

func lastN(trades []types.ClosedTrade, n int) []types.ClosedTrade {
	if len(trades) <= n {
		return trades
	}

	return trades[len(trades)-n:]
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
