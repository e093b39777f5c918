package store

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/papertrade/internal/logger"
	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/rxtech-lab/papertrade/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBStore implements Store on an embedded DuckDB database. Pass
// ":memory:" as the path for an ephemeral store in tests.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewDuckDBStore(path string, logger *logger.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to open database", err)
	}

	return &DuckDBStore{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the portfolio, position and trade history tables.
func (s *DuckDBStore) Initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS portfolios (
			id TEXT PRIMARY KEY,
			balance DOUBLE,
			initial_balance DOUBLE,
			total_trades INTEGER,
			winning_trades INTEGER,
			losing_trades INTEGER,
			total_pnl DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create portfolios table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS positions (
			id TEXT PRIMARY KEY,
			portfolio_id TEXT,
			symbol TEXT,
			direction TEXT,
			entry_price DOUBLE,
			current_price DOUBLE,
			leverage INTEGER,
			position_size DOUBLE,
			margin_used DOUBLE,
			take_profit_price DOUBLE,
			stop_loss_price DOUBLE,
			confidence INTEGER,
			reasoning TEXT,
			opened_at TIMESTAMP,
			unrealized_pnl DOUBLE,
			unrealized_pnl_percent DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create positions table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS trade_history (
			id TEXT PRIMARY KEY,
			position_id TEXT,
			portfolio_id TEXT,
			symbol TEXT,
			direction TEXT,
			entry_price DOUBLE,
			close_price DOUBLE,
			leverage INTEGER,
			position_size DOUBLE,
			margin_used DOUBLE,
			take_profit_price DOUBLE,
			stop_loss_price DOUBLE,
			confidence INTEGER,
			reasoning TEXT,
			opened_at TIMESTAMP,
			closed_at TIMESTAMP,
			close_reason TEXT,
			realized_pnl DOUBLE,
			realized_pnl_percent DOUBLE,
			was_profitable BOOLEAN,
			hit_target BOOLEAN
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create trade_history table", err)
	}

	return nil
}

// SavePortfolio upserts the portfolio row. Raw SQL because Squirrel has no
// INSERT OR REPLACE syntax.
func (s *DuckDBStore) SavePortfolio(p types.Portfolio) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO portfolios (
			id, balance, initial_balance, total_trades, winning_trades, losing_trades, total_pnl
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Balance, p.InitialBalance,
		p.Stats.TotalTrades, p.Stats.WinningTrades, p.Stats.LosingTrades, p.Stats.TotalPnL)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to save portfolio", err)
	}

	return nil
}

func (s *DuckDBStore) LoadPortfolio(id string) (optional.Option[types.Portfolio], error) {
	query := s.sq.
		Select("id", "balance", "initial_balance", "total_trades", "winning_trades", "losing_trades", "total_pnl").
		From("portfolios").
		Where(squirrel.Eq{"id": id}).
		RunWith(s.db)

	var portfolio types.Portfolio
	err := query.QueryRow().Scan(
		&portfolio.ID,
		&portfolio.Balance,
		&portfolio.InitialBalance,
		&portfolio.Stats.TotalTrades,
		&portfolio.Stats.WinningTrades,
		&portfolio.Stats.LosingTrades,
		&portfolio.Stats.TotalPnL,
	)
	if err == sql.ErrNoRows {
		return optional.None[types.Portfolio](), nil
	}

	if err != nil {
		return optional.None[types.Portfolio](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to load portfolio", err)
	}

	positions, err := s.listPositions(id)
	if err != nil {
		return optional.None[types.Portfolio](), err
	}

	history, err := s.listTrades(id)
	if err != nil {
		return optional.None[types.Portfolio](), err
	}

	portfolio.Positions = positions
	portfolio.History = history

	return optional.Some(portfolio), nil
}

func (s *DuckDBStore) OpenPosition(portfolioID string, pos types.Position, newBalance float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	insertQuery := s.sq.
		Insert("positions").
		Columns(
			"id", "portfolio_id", "symbol", "direction", "entry_price", "current_price",
			"leverage", "position_size", "margin_used", "take_profit_price", "stop_loss_price",
			"confidence", "reasoning", "opened_at", "unrealized_pnl", "unrealized_pnl_percent",
		).
		Values(
			pos.ID, portfolioID, pos.Symbol, pos.Direction, pos.EntryPrice, pos.CurrentPrice,
			pos.Leverage, pos.PositionSize, pos.MarginUsed, pos.TakeProfitPrice, pos.StopLossPrice,
			pos.Confidence, pos.Reasoning, pos.OpenedAt, pos.UnrealizedPnL, pos.UnrealizedPnLPercent,
		).
		RunWith(tx)

	if _, err = insertQuery.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert position", err)
	}

	updateQuery := s.sq.
		Update("portfolios").
		Set("balance", newBalance).
		Where(squirrel.Eq{"id": portfolioID}).
		RunWith(tx)

	if _, err = updateQuery.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to update balance", err)
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit transaction", err)
	}

	return nil
}

func (s *DuckDBStore) UpdatePositionMark(pos types.Position) error {
	updateQuery := s.sq.
		Update("positions").
		Set("current_price", pos.CurrentPrice).
		Set("unrealized_pnl", pos.UnrealizedPnL).
		Set("unrealized_pnl_percent", pos.UnrealizedPnLPercent).
		Where(squirrel.Eq{"id": pos.ID}).
		RunWith(s.db)

	if _, err := updateQuery.Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to update position mark", err)
	}

	return nil
}

func (s *DuckDBStore) ClosePosition(portfolioID string, trade types.ClosedTrade, newBalance float64, stats types.PortfolioStats) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	deleteQuery := s.sq.
		Delete("positions").
		Where(squirrel.Eq{"id": trade.PositionID}).
		RunWith(tx)

	if _, err = deleteQuery.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to delete position", err)
	}

	insertQuery := s.sq.
		Insert("trade_history").
		Columns(
			"id", "position_id", "portfolio_id", "symbol", "direction", "entry_price",
			"close_price", "leverage", "position_size", "margin_used", "take_profit_price",
			"stop_loss_price", "confidence", "reasoning", "opened_at", "closed_at",
			"close_reason", "realized_pnl", "realized_pnl_percent", "was_profitable", "hit_target",
		).
		Values(
			trade.ID, trade.PositionID, portfolioID, trade.Symbol, trade.Direction, trade.EntryPrice,
			trade.ClosePrice, trade.Leverage, trade.PositionSize, trade.MarginUsed, trade.TakeProfitPrice,
			trade.StopLossPrice, trade.Confidence, trade.Reasoning, trade.OpenedAt, trade.ClosedAt,
			trade.CloseReason, trade.RealizedPnL, trade.RealizedPnLPercent, trade.WasProfitable, trade.HitTarget,
		).
		RunWith(tx)

	if _, err = insertQuery.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert trade record", err)
	}

	updateQuery := s.sq.
		Update("portfolios").
		Set("balance", newBalance).
		Set("total_trades", stats.TotalTrades).
		Set("winning_trades", stats.WinningTrades).
		Set("losing_trades", stats.LosingTrades).
		Set("total_pnl", stats.TotalPnL).
		Where(squirrel.Eq{"id": portfolioID}).
		RunWith(tx)

	if _, err = updateQuery.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to update portfolio", err)
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit transaction", err)
	}

	return nil
}

// Reset deletes all positions and history for the portfolio and restores the
// starting balance.
func (s *DuckDBStore) Reset(portfolioID string, initialBalance float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	deletePositions := s.sq.
		Delete("positions").
		Where(squirrel.Eq{"portfolio_id": portfolioID}).
		RunWith(tx)

	if _, err = deletePositions.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to delete positions", err)
	}

	deleteTrades := s.sq.
		Delete("trade_history").
		Where(squirrel.Eq{"portfolio_id": portfolioID}).
		RunWith(tx)

	if _, err = deleteTrades.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to delete trade history", err)
	}

	updateQuery := s.sq.
		Update("portfolios").
		Set("balance", initialBalance).
		Set("initial_balance", initialBalance).
		Set("total_trades", 0).
		Set("winning_trades", 0).
		Set("losing_trades", 0).
		Set("total_pnl", 0.0).
		Where(squirrel.Eq{"id": portfolioID}).
		RunWith(tx)

	if _, err = updateQuery.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to reset portfolio", err)
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit transaction", err)
	}

	s.logger.Info("Portfolio reset", zap.String("portfolio_id", portfolioID), zap.Float64("balance", initialBalance))

	return nil
}

// SymbolTradeStats aggregates closed trades per symbol. Raw SQL for the CTE as
// Squirrel doesn't support WITH clauses.
func (s *DuckDBStore) SymbolTradeStats(portfolioID string) ([]SymbolStats, error) {
	query := `
		WITH trade_stats AS (
			SELECT
				symbol,
				COUNT(*) as total_trades,
				SUM(CASE WHEN was_profitable THEN 1 ELSE 0 END) as winning_trades,
				SUM(CASE WHEN was_profitable THEN 0 ELSE 1 END) as losing_trades,
				SUM(realized_pnl) as total_pnl,
				MIN(realized_pnl) as min_pnl,
				MAX(realized_pnl) as max_pnl
			FROM trade_history
			WHERE portfolio_id = ?
			GROUP BY symbol
		)
		SELECT
			symbol,
			total_trades,
			winning_trades,
			losing_trades,
			CASE WHEN total_trades > 0 THEN CAST(winning_trades AS DOUBLE) / total_trades * 100 ELSE 0 END as win_rate,
			total_pnl,
			CASE WHEN min_pnl < 0 THEN min_pnl ELSE 0 END as max_loss,
			CASE WHEN max_pnl > 0 THEN max_pnl ELSE 0 END as max_profit
		FROM trade_stats
		ORDER BY symbol
	`

	rows, err := s.db.Query(query, portfolioID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbol stats", err)
	}
	defer rows.Close()

	var stats []SymbolStats

	for rows.Next() {
		var st SymbolStats

		err := rows.Scan(
			&st.Symbol,
			&st.TotalTrades,
			&st.WinningTrades,
			&st.LosingTrades,
			&st.WinRate,
			&st.TotalPnL,
			&st.MaxLoss,
			&st.MaxProfit,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol stats", err)
		}

		stats = append(stats, st)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating symbol stats", err)
	}

	return stats, nil
}

func (s *DuckDBStore) Close() error {
	return s.db.Close()
}

func (s *DuckDBStore) listPositions(portfolioID string) ([]types.Position, error) {
	selectQuery := s.sq.
		Select(
			"id", "symbol", "direction", "entry_price", "current_price",
			"leverage", "position_size", "margin_used", "take_profit_price", "stop_loss_price",
			"confidence", "reasoning", "opened_at", "unrealized_pnl", "unrealized_pnl_percent",
		).
		From("positions").
		Where(squirrel.Eq{"portfolio_id": portfolioID}).
		OrderBy("opened_at ASC").
		RunWith(s.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query positions", err)
	}
	defer rows.Close()

	var positions []types.Position

	for rows.Next() {
		var pos types.Position

		err := rows.Scan(
			&pos.ID,
			&pos.Symbol,
			&pos.Direction,
			&pos.EntryPrice,
			&pos.CurrentPrice,
			&pos.Leverage,
			&pos.PositionSize,
			&pos.MarginUsed,
			&pos.TakeProfitPrice,
			&pos.StopLossPrice,
			&pos.Confidence,
			&pos.Reasoning,
			&pos.OpenedAt,
			&pos.UnrealizedPnL,
			&pos.UnrealizedPnLPercent,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan position", err)
		}

		positions = append(positions, pos)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating positions", err)
	}

	return positions, nil
}

func (s *DuckDBStore) listTrades(portfolioID string) ([]types.ClosedTrade, error) {
	selectQuery := s.sq.
		Select(
			"id", "position_id", "symbol", "direction", "entry_price", "close_price",
			"leverage", "position_size", "margin_used", "take_profit_price", "stop_loss_price",
			"confidence", "reasoning", "opened_at", "closed_at", "close_reason",
			"realized_pnl", "realized_pnl_percent", "was_profitable", "hit_target",
		).
		From("trade_history").
		Where(squirrel.Eq{"portfolio_id": portfolioID}).
		OrderBy("closed_at ASC").
		RunWith(s.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trade history", err)
	}
	defer rows.Close()

	var trades []types.ClosedTrade

	for rows.Next() {
		var trade types.ClosedTrade

		err := rows.Scan(
			&trade.ID,
			&trade.PositionID,
			&trade.Symbol,
			&trade.Direction,
			&trade.EntryPrice,
			&trade.ClosePrice,
			&trade.Leverage,
			&trade.PositionSize,
			&trade.MarginUsed,
			&trade.TakeProfitPrice,
			&trade.StopLossPrice,
			&trade.Confidence,
			&trade.Reasoning,
			&trade.OpenedAt,
			&trade.ClosedAt,
			&trade.CloseReason,
			&trade.RealizedPnL,
			&trade.RealizedPnLPercent,
			&trade.WasProfitable,
			&trade.HitTarget,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		trades = append(trades, trade)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating trades", err)
	}

	return trades, nil
}
