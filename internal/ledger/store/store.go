package store

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/papertrade/internal/types"
)

// SymbolStats is the per-symbol trade summary computed from persisted history.
type SymbolStats struct {
	Symbol        string  `json:"symbol"`
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	TotalPnL      float64 `json:"total_pnl"`
	MaxLoss       float64 `json:"max_loss"`
	MaxProfit     float64 `json:"max_profit"`
}

// Store persists portfolios, open positions and closed trade history. The
// ledger is the single writer; every mutating call must leave the store
// consistent with the ledger's in-memory state.
type Store interface {
	// Initialize creates the schema if it does not exist yet.
	Initialize() error
	// SavePortfolio upserts the portfolio row (balance and stats counters).
	SavePortfolio(p types.Portfolio) error
	// LoadPortfolio loads a portfolio with its open positions and history,
	// or None when the id is unknown.
	LoadPortfolio(id string) (optional.Option[types.Portfolio], error)
	// OpenPosition atomically inserts the position and writes the reduced
	// balance.
	OpenPosition(portfolioID string, pos types.Position, newBalance float64) error
	// UpdatePositionMark writes the latest mark-to-market values for an open
	// position.
	UpdatePositionMark(pos types.Position) error
	// ClosePosition atomically deletes the position row, appends the trade
	// record and writes the new balance and stats counters.
	ClosePosition(portfolioID string, trade types.ClosedTrade, newBalance float64, stats types.PortfolioStats) error
	// Reset wipes positions and history and restores the initial balance.
	Reset(portfolioID string, initialBalance float64) error
	// SymbolTradeStats aggregates closed trades per symbol.
	SymbolTradeStats(portfolioID string) ([]SymbolStats, error)
	// Close releases the underlying database handle.
	Close() error
}
