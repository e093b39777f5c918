package types

// PortfolioStats holds the running counters derived from trade history.
type PortfolioStats struct {
	TotalTrades   int     `json:"total_trades" yaml:"total_trades"`
	WinningTrades int     `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades  int     `json:"losing_trades" yaml:"losing_trades"`
	TotalPnL      float64 `json:"total_pnl" yaml:"total_pnl"`
}

// Portfolio is the full read-side view of a portfolio: free balance, open
// positions and the append-only trade history.
type Portfolio struct {
	ID             string         `json:"id" yaml:"id"`
	Balance        float64        `json:"balance" yaml:"balance"`
	InitialBalance float64        `json:"initial_balance" yaml:"initial_balance"`
	Positions      []Position     `json:"positions" yaml:"positions"`
	History        []ClosedTrade  `json:"history" yaml:"history"`
	Stats          PortfolioStats `json:"stats" yaml:"stats"`
}

// PerformanceStats summarizes portfolio performance for reporting.
type PerformanceStats struct {
	CurrentBalance     float64 `json:"current_balance" yaml:"current_balance"`
	InitialBalance     float64 `json:"initial_balance" yaml:"initial_balance"`
	TotalReturnPercent float64 `json:"total_return_percent" yaml:"total_return_percent"`
	TotalPnL           float64 `json:"total_pnl" yaml:"total_pnl"`
	TotalTrades        int     `json:"total_trades" yaml:"total_trades"`
	WinningTrades      int     `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades       int     `json:"losing_trades" yaml:"losing_trades"`
	WinRate            float64 `json:"win_rate" yaml:"win_rate"`
	OpenPositions      int     `json:"open_positions" yaml:"open_positions"`
	HistoryCount       int     `json:"history_count" yaml:"history_count"`
}

// RecentTrade is a compact view of a closed trade used in performance context.
type RecentTrade struct {
	Direction          Direction   `json:"direction" yaml:"direction"`
	CloseReason        CloseReason `json:"close_reason" yaml:"close_reason"`
	RealizedPnLPercent float64     `json:"realized_pnl_percent" yaml:"realized_pnl_percent"`
}

// SymbolPerformance is the per-symbol slice of performance context.
type SymbolPerformance struct {
	WinRate      float64       `json:"win_rate" yaml:"win_rate"`
	TradeCount   int           `json:"trade_count" yaml:"trade_count"`
	RecentTrades []RecentTrade `json:"recent_trades" yaml:"recent_trades"`
}

// PerformanceContext is the feedback summary handed to the external advisory
// process so it can adapt to what has actually been working.
type PerformanceContext struct {
	HasHistory        bool                         `json:"has_history" yaml:"has_history"`
	TotalClosedTrades int                          `json:"total_closed_trades" yaml:"total_closed_trades"`
	OverallWinRate    float64                      `json:"overall_win_rate" yaml:"overall_win_rate"`
	PerSymbol         map[string]SymbolPerformance `json:"per_symbol" yaml:"per_symbol"`
	Patterns          []string                     `json:"patterns" yaml:"patterns"`
}
