package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/papertrade/internal/ledger/store"
	"github.com/rxtech-lab/papertrade/internal/logger"
	"github.com/rxtech-lab/papertrade/internal/metrics"
	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/rxtech-lab/papertrade/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultSizingPercent is the share of free balance committed as margin when
// an open request does not specify one.
const DefaultSizingPercent = 10.0

// Config describes the single portfolio a ledger manages.
type Config struct {
	PortfolioID    string  `yaml:"portfolio_id" validate:"required"`
	InitialBalance float64 `yaml:"initial_balance" validate:"required,gt=0"`
}

// OpenRequest carries the parameters for opening a position. Leverage must
// already be within [1, 10]; callers clamp before requesting.
type OpenRequest struct {
	Symbol          string
	Direction       types.Direction
	EntryPrice      float64
	Leverage        int
	TakeProfitPrice float64
	StopLossPrice   float64
	Confidence      int
	Reasoning       string
	SizingPercent   float64
}

// PositionLedger owns all balance and position mutations for one portfolio.
// Every mutating operation runs under the write lock so that the
// open-debit/close-credit arithmetic never interleaves. Reads serve from the
// in-memory state under the read lock; the store is written through inside
// the same critical section as the memory update.
type PositionLedger struct {
	mu        sync.RWMutex
	store     store.Store
	logger    *logger.Logger
	portfolio types.Portfolio
}

// NewPositionLedger loads the portfolio from the store, creating it with the
// configured initial balance on first run.
func NewPositionLedger(st store.Store, logger *logger.Logger, cfg Config) (*PositionLedger, error) {
	if err := st.Initialize(); err != nil {
		return nil, err
	}

	loaded, err := st.LoadPortfolio(cfg.PortfolioID)
	if err != nil {
		return nil, err
	}

	portfolio := loaded.TakeOr(types.Portfolio{
		ID:             cfg.PortfolioID,
		Balance:        cfg.InitialBalance,
		InitialBalance: cfg.InitialBalance,
	})

	if loaded.IsNone() {
		if err := st.SavePortfolio(portfolio); err != nil {
			return nil, err
		}

		logger.Info("Created portfolio",
			zap.String("portfolio_id", cfg.PortfolioID),
			zap.Float64("initial_balance", cfg.InitialBalance),
		)
	}

	metrics.OpenPositions.Set(float64(len(portfolio.Positions)))
	metrics.BalanceGauge.Set(portfolio.Balance)

	return &PositionLedger{
		store:     st,
		logger:    logger,
		portfolio: portfolio,
	}, nil
}

// Open debits margin from the free balance and creates a new position.
func (l *PositionLedger) Open(req OpenRequest) (types.Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if req.EntryPrice <= 0 {
		return types.Position{}, errors.Newf(errors.ErrCodeInvalidPrice, "entry price must be positive, got %f", req.EntryPrice)
	}

	sizing := req.SizingPercent
	if sizing <= 0 {
		sizing = DefaultSizingPercent
	}

	margin := decimal.NewFromFloat(l.portfolio.Balance).
		Mul(decimal.NewFromFloat(sizing)).
		Div(decimal.NewFromInt(100)).
		InexactFloat64()

	if l.portfolio.Balance <= 0 || margin > l.portfolio.Balance {
		return types.Position{}, errors.Newf(errors.ErrCodeInsufficientFunds,
			"insufficient balance %.2f for margin %.2f", l.portfolio.Balance, margin)
	}

	positionSize := margin * float64(req.Leverage) / req.EntryPrice

	pos := types.Position{
		ID:              uuid.New().String(),
		Symbol:          req.Symbol,
		Direction:       req.Direction,
		EntryPrice:      req.EntryPrice,
		CurrentPrice:    req.EntryPrice,
		Leverage:        req.Leverage,
		PositionSize:    positionSize,
		MarginUsed:      margin,
		TakeProfitPrice: req.TakeProfitPrice,
		StopLossPrice:   req.StopLossPrice,
		Confidence:      req.Confidence,
		Reasoning:       req.Reasoning,
		OpenedAt:        time.Now().UTC(),
	}

	if err := pos.Validate(); err != nil {
		return types.Position{}, err
	}

	newBalance := l.portfolio.Balance - margin

	if err := l.store.OpenPosition(l.portfolio.ID, pos, newBalance); err != nil {
		return types.Position{}, err
	}

	l.portfolio.Balance = newBalance
	l.portfolio.Positions = append(l.portfolio.Positions, pos)

	metrics.PositionsOpened.WithLabelValues(pos.Symbol).Inc()
	metrics.OpenPositions.Set(float64(len(l.portfolio.Positions)))
	metrics.BalanceGauge.Set(l.portfolio.Balance)

	l.logger.Info("Opened position",
		zap.String("id", pos.ID),
		zap.String("symbol", pos.Symbol),
		zap.String("direction", string(pos.Direction)),
		zap.Float64("entry_price", pos.EntryPrice),
		zap.Int("leverage", pos.Leverage),
		zap.Float64("margin", margin),
	)

	return pos, nil
}

// MarkToMarket refreshes unrealized PnL for every open position against the
// given price snapshot and closes the ones whose take-profit or stop-loss
// triggered. Positions without a quote are left untouched this tick. All
// updates and triggered closes run in one critical section against the
// snapshot taken at call time.
func (l *PositionLedger) MarkToMarket(prices types.PriceMap) ([]types.ClosedTrade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	type pendingClose struct {
		positionID string
		closePrice float64
		reason     types.CloseReason
	}

	var pending []pendingClose

	for i := range l.portfolio.Positions {
		pos := &l.portfolio.Positions[i]

		current, ok := prices.Price(pos.Symbol)
		if !ok {
			continue
		}

		pct := directionalReturnPct(pos.Direction, pos.EntryPrice, current)
		leveragedPct := pct * float64(pos.Leverage)

		pos.CurrentPrice = current
		pos.UnrealizedPnLPercent = round2(leveragedPct)
		pos.UnrealizedPnL = round2(decimal.NewFromFloat(pos.MarginUsed).
			Mul(decimal.NewFromFloat(leveragedPct)).
			Div(decimal.NewFromInt(100)).
			InexactFloat64())

		if err := l.store.UpdatePositionMark(*pos); err != nil {
			return nil, err
		}

		// Take-profit is checked before stop-loss.
		if pos.Direction == types.DirectionLong {
			if current >= pos.TakeProfitPrice {
				pending = append(pending, pendingClose{pos.ID, current, types.CloseReasonTakeProfit})
			} else if current <= pos.StopLossPrice {
				pending = append(pending, pendingClose{pos.ID, current, types.CloseReasonStopLoss})
			}
		} else {
			if current <= pos.TakeProfitPrice {
				pending = append(pending, pendingClose{pos.ID, current, types.CloseReasonTakeProfit})
			} else if current >= pos.StopLossPrice {
				pending = append(pending, pendingClose{pos.ID, current, types.CloseReasonStopLoss})
			}
		}
	}

	var closed []types.ClosedTrade

	for _, pc := range pending {
		trade, err := l.closeLocked(pc.positionID, pc.closePrice, pc.reason)
		if err != nil {
			return nil, err
		}

		closed = append(closed, trade)
	}

	return closed, nil
}

// Close settles the position at the given price, credits margin plus realized
// PnL back to the balance and archives the trade.
func (l *PositionLedger) Close(positionID string, closePrice float64, reason types.CloseReason) (types.ClosedTrade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.closeLocked(positionID, closePrice, reason)
}

func (l *PositionLedger) closeLocked(positionID string, closePrice float64, reason types.CloseReason) (types.ClosedTrade, error) {
	idx := -1

	for i := range l.portfolio.Positions {
		if l.portfolio.Positions[i].ID == positionID {
			idx = i
			break
		}
	}

	if idx < 0 {
		return types.ClosedTrade{}, errors.Newf(errors.ErrCodePositionNotFound, "no open position with id %s", positionID)
	}

	pos := l.portfolio.Positions[idx]

	pct := directionalReturnPct(pos.Direction, pos.EntryPrice, closePrice)
	leveragedPct := pct * float64(pos.Leverage)

	realizedPnL := round2(decimal.NewFromFloat(pos.MarginUsed).
		Mul(decimal.NewFromFloat(leveragedPct)).
		Div(decimal.NewFromInt(100)).
		InexactFloat64())

	trade := types.ClosedTrade{
		ID:                 uuid.New().String(),
		PositionID:         pos.ID,
		Symbol:             pos.Symbol,
		Direction:          pos.Direction,
		EntryPrice:         pos.EntryPrice,
		ClosePrice:         closePrice,
		Leverage:           pos.Leverage,
		PositionSize:       pos.PositionSize,
		MarginUsed:         pos.MarginUsed,
		TakeProfitPrice:    pos.TakeProfitPrice,
		StopLossPrice:      pos.StopLossPrice,
		Confidence:         pos.Confidence,
		Reasoning:          pos.Reasoning,
		OpenedAt:           pos.OpenedAt,
		ClosedAt:           time.Now().UTC(),
		CloseReason:        reason,
		RealizedPnL:        realizedPnL,
		RealizedPnLPercent: round2(leveragedPct),
		WasProfitable:      realizedPnL > 0,
		HitTarget:          reason == types.CloseReasonTakeProfit && realizedPnL > 0,
	}

	newBalance := decimal.NewFromFloat(l.portfolio.Balance).
		Add(decimal.NewFromFloat(pos.MarginUsed)).
		Add(decimal.NewFromFloat(realizedPnL)).
		InexactFloat64()

	stats := l.portfolio.Stats
	stats.TotalTrades++
	stats.TotalPnL = round2(stats.TotalPnL + realizedPnL)

	if trade.WasProfitable {
		stats.WinningTrades++
	} else {
		stats.LosingTrades++
	}

	if err := l.store.ClosePosition(l.portfolio.ID, trade, newBalance, stats); err != nil {
		return types.ClosedTrade{}, err
	}

	l.portfolio.Positions = append(l.portfolio.Positions[:idx], l.portfolio.Positions[idx+1:]...)
	l.portfolio.History = append(l.portfolio.History, trade)
	l.portfolio.Balance = newBalance
	l.portfolio.Stats = stats

	metrics.PositionsClosed.WithLabelValues(string(reason)).Inc()
	metrics.RealizedPnL.Add(realizedPnL)
	metrics.OpenPositions.Set(float64(len(l.portfolio.Positions)))
	metrics.BalanceGauge.Set(l.portfolio.Balance)

	l.logger.Info("Closed position",
		zap.String("id", pos.ID),
		zap.String("symbol", pos.Symbol),
		zap.String("reason", string(reason)),
		zap.Float64("close_price", closePrice),
		zap.Float64("realized_pnl", realizedPnL),
	)

	return trade, nil
}

// Reset wipes positions and history and restores the given starting balance.
func (l *PositionLedger) Reset(initialBalance float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if initialBalance <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "initial balance must be positive, got %f", initialBalance)
	}

	if err := l.store.Reset(l.portfolio.ID, initialBalance); err != nil {
		return err
	}

	l.portfolio = types.Portfolio{
		ID:             l.portfolio.ID,
		Balance:        initialBalance,
		InitialBalance: initialBalance,
	}

	metrics.OpenPositions.Set(0)
	metrics.BalanceGauge.Set(initialBalance)

	return nil
}

// GetPortfolio returns a deep copy of the current portfolio state.
func (l *PositionLedger) GetPortfolio() types.Portfolio {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.snapshotLocked()
}

// GetPositionBySymbol returns the open position for a symbol, if any.
func (l *PositionLedger) GetPositionBySymbol(symbol string) optional.Option[types.Position] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, pos := range l.portfolio.Positions {
		if pos.Symbol == symbol {
			return optional.Some(pos)
		}
	}

	return optional.None[types.Position]()
}

func (l *PositionLedger) snapshotLocked() types.Portfolio {
	snapshot := l.portfolio
	snapshot.Positions = make([]types.Position, len(l.portfolio.Positions))
	copy(snapshot.Positions, l.portfolio.Positions)
	snapshot.History = make([]types.ClosedTrade, len(l.portfolio.History))
	copy(snapshot.History, l.portfolio.History)

	return snapshot
}

func directionalReturnPct(direction types.Direction, entry, current float64) float64 {
	if entry == 0 {
		return 0
	}

	if direction == types.DirectionShort {
		return (entry - current) / entry * 100
	}

	return (current - entry) / entry * 100
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
