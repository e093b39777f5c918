package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/papertrade/internal/logger"
	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/stretchr/testify/suite"
)

type DuckDBStoreTestSuite struct {
	suite.Suite
	store *DuckDBStore
}

func TestDuckDBStoreSuite(t *testing.T) {
	suite.Run(t, new(DuckDBStoreTestSuite))
}

func (suite *DuckDBStoreTestSuite) SetupTest() {
	store, err := NewDuckDBStore(":memory:", logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Require().NoError(store.Initialize())
	suite.store = store
}

func (suite *DuckDBStoreTestSuite) TearDownTest() {
	if suite.store != nil {
		suite.store.Close()
	}
}

func (suite *DuckDBStoreTestSuite) portfolio() types.Portfolio {
	return types.Portfolio{
		ID:             "default",
		Balance:        10000,
		InitialBalance: 10000,
	}
}

func (suite *DuckDBStoreTestSuite) position(symbol string) types.Position {
	return types.Position{
		ID:              uuid.New().String(),
		Symbol:          symbol,
		Direction:       types.DirectionLong,
		EntryPrice:      100,
		CurrentPrice:    100,
		Leverage:        3,
		PositionSize:    15,
		MarginUsed:      500,
		TakeProfitPrice: 110,
		StopLossPrice:   95,
		Confidence:      80,
		Reasoning:       "breakout above resistance",
		OpenedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (suite *DuckDBStoreTestSuite) TestLoadUnknownPortfolioReturnsNone() {
	loaded, err := suite.store.LoadPortfolio("missing")
	suite.Require().NoError(err)
	suite.True(loaded.IsNone())
}

func (suite *DuckDBStoreTestSuite) TestSaveAndLoadPortfolio() {
	p := suite.portfolio()
	suite.Require().NoError(suite.store.SavePortfolio(p))

	loaded, err := suite.store.LoadPortfolio(p.ID)
	suite.Require().NoError(err)
	suite.Require().True(loaded.IsSome())

	got := loaded.Unwrap()
	suite.Equal(p.ID, got.ID)
	suite.Equal(p.Balance, got.Balance)
	suite.Equal(p.InitialBalance, got.InitialBalance)
	suite.Empty(got.Positions)
	suite.Empty(got.History)
}

func (suite *DuckDBStoreTestSuite) TestSavePortfolioIsUpsert() {
	p := suite.portfolio()
	suite.Require().NoError(suite.store.SavePortfolio(p))

	p.Balance = 9500
	suite.Require().NoError(suite.store.SavePortfolio(p))

	loaded, err := suite.store.LoadPortfolio(p.ID)
	suite.Require().NoError(err)
	suite.Equal(9500.0, loaded.Unwrap().Balance)
}

func (suite *DuckDBStoreTestSuite) TestOpenPositionPersistsPositionAndBalance() {
	p := suite.portfolio()
	suite.Require().NoError(suite.store.SavePortfolio(p))

	pos := suite.position("BTC")
	suite.Require().NoError(suite.store.OpenPosition(p.ID, pos, 9500))

	loaded, err := suite.store.LoadPortfolio(p.ID)
	suite.Require().NoError(err)

	got := loaded.Unwrap()
	suite.Equal(9500.0, got.Balance)
	suite.Require().Len(got.Positions, 1)
	suite.Equal(pos.ID, got.Positions[0].ID)
	suite.Equal(pos.Symbol, got.Positions[0].Symbol)
	suite.Equal(pos.Direction, got.Positions[0].Direction)
	suite.Equal(pos.EntryPrice, got.Positions[0].EntryPrice)
	suite.Equal(pos.Leverage, got.Positions[0].Leverage)
	suite.Equal(pos.MarginUsed, got.Positions[0].MarginUsed)
	suite.WithinDuration(pos.OpenedAt, got.Positions[0].OpenedAt, time.Second)
}

func (suite *DuckDBStoreTestSuite) TestUpdatePositionMark() {
	p := suite.portfolio()
	suite.Require().NoError(suite.store.SavePortfolio(p))

	pos := suite.position("ETH")
	suite.Require().NoError(suite.store.OpenPosition(p.ID, pos, 9500))

	pos.CurrentPrice = 104
	pos.UnrealizedPnL = 60
	pos.UnrealizedPnLPercent = 12
	suite.Require().NoError(suite.store.UpdatePositionMark(pos))

	loaded, err := suite.store.LoadPortfolio(p.ID)
	suite.Require().NoError(err)

	got := loaded.Unwrap().Positions[0]
	suite.Equal(104.0, got.CurrentPrice)
	suite.Equal(60.0, got.UnrealizedPnL)
	suite.Equal(12.0, got.UnrealizedPnLPercent)
}

func (suite *DuckDBStoreTestSuite) TestClosePositionMovesRowToHistory() {
	p := suite.portfolio()
	suite.Require().NoError(suite.store.SavePortfolio(p))

	pos := suite.position("SOL")
	suite.Require().NoError(suite.store.OpenPosition(p.ID, pos, 9500))

	trade := types.ClosedTrade{
		ID:                 uuid.New().String(),
		PositionID:         pos.ID,
		Symbol:             pos.Symbol,
		Direction:          pos.Direction,
		EntryPrice:         pos.EntryPrice,
		ClosePrice:         110,
		Leverage:           pos.Leverage,
		PositionSize:       pos.PositionSize,
		MarginUsed:         pos.MarginUsed,
		TakeProfitPrice:    pos.TakeProfitPrice,
		StopLossPrice:      pos.StopLossPrice,
		Confidence:         pos.Confidence,
		Reasoning:          pos.Reasoning,
		OpenedAt:           pos.OpenedAt,
		ClosedAt:           pos.OpenedAt.Add(6 * time.Hour),
		CloseReason:        types.CloseReasonTakeProfit,
		RealizedPnL:        150,
		RealizedPnLPercent: 30,
		WasProfitable:      true,
		HitTarget:          true,
	}
	stats := types.PortfolioStats{TotalTrades: 1, WinningTrades: 1, TotalPnL: 150}

	suite.Require().NoError(suite.store.ClosePosition(p.ID, trade, 10150, stats))

	loaded, err := suite.store.LoadPortfolio(p.ID)
	suite.Require().NoError(err)

	got := loaded.Unwrap()
	suite.Empty(got.Positions)
	suite.Require().Len(got.History, 1)
	suite.Equal(trade.ID, got.History[0].ID)
	suite.Equal(types.CloseReasonTakeProfit, got.History[0].CloseReason)
	suite.Equal(150.0, got.History[0].RealizedPnL)
	suite.True(got.History[0].WasProfitable)
	suite.True(got.History[0].HitTarget)
	suite.Equal(10150.0, got.Balance)
	suite.Equal(stats, got.Stats)
}

func (suite *DuckDBStoreTestSuite) TestResetWipesStateAndRestoresBalance() {
	p := suite.portfolio()
	suite.Require().NoError(suite.store.SavePortfolio(p))

	pos := suite.position("BTC")
	suite.Require().NoError(suite.store.OpenPosition(p.ID, pos, 9500))

	suite.Require().NoError(suite.store.Reset(p.ID, 10000))

	loaded, err := suite.store.LoadPortfolio(p.ID)
	suite.Require().NoError(err)

	got := loaded.Unwrap()
	suite.Equal(10000.0, got.Balance)
	suite.Equal(10000.0, got.InitialBalance)
	suite.Empty(got.Positions)
	suite.Empty(got.History)
	suite.Equal(types.PortfolioStats{}, got.Stats)
}

func (suite *DuckDBStoreTestSuite) TestSymbolTradeStats() {
	p := suite.portfolio()
	suite.Require().NoError(suite.store.SavePortfolio(p))

	trades := []struct {
		symbol     string
		pnl        float64
		profitable bool
	}{
		{"BTC", 100, true},
		{"BTC", -40, false},
		{"ETH", 25, true},
	}

	for _, tc := range trades {
		pos := suite.position(tc.symbol)
		suite.Require().NoError(suite.store.OpenPosition(p.ID, pos, 9500))

		trade := types.ClosedTrade{
			ID:            uuid.New().String(),
			PositionID:    pos.ID,
			Symbol:        tc.symbol,
			Direction:     types.DirectionLong,
			EntryPrice:    100,
			ClosePrice:    105,
			Leverage:      3,
			PositionSize:  15,
			MarginUsed:    500,
			OpenedAt:      pos.OpenedAt,
			ClosedAt:      pos.OpenedAt.Add(time.Hour),
			CloseReason:   types.CloseReasonManual,
			RealizedPnL:   tc.pnl,
			WasProfitable: tc.profitable,
		}
		suite.Require().NoError(suite.store.ClosePosition(p.ID, trade, 10000, types.PortfolioStats{}))
	}

	stats, err := suite.store.SymbolTradeStats(p.ID)
	suite.Require().NoError(err)
	suite.Require().Len(stats, 2)

	btc := stats[0]
	suite.Equal("BTC", btc.Symbol)
	suite.Equal(2, btc.TotalTrades)
	suite.Equal(1, btc.WinningTrades)
	suite.Equal(1, btc.LosingTrades)
	suite.Equal(50.0, btc.WinRate)
	suite.Equal(60.0, btc.TotalPnL)
	suite.Equal(-40.0, btc.MaxLoss)
	suite.Equal(100.0, btc.MaxProfit)

	eth := stats[1]
	suite.Equal("ETH", eth.Symbol)
	suite.Equal(1, eth.TotalTrades)
	suite.Equal(100.0, eth.WinRate)
	suite.Equal(0.0, eth.MaxLoss)
	suite.Equal(25.0, eth.MaxProfit)
}
