package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/papertrade/pkg/errors"
)

type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

type CloseReason string

const (
	CloseReasonTakeProfit CloseReason = "take_profit"
	CloseReasonStopLoss   CloseReason = "stop_loss"
	CloseReasonManual     CloseReason = "manual"
)

// Position is an open leveraged position. The ledger is its only mutable
// owner: created by Open, updated by MarkToMarket, destroyed by Close.
type Position struct {
	ID                   string    `json:"id" yaml:"id" validate:"required,uuid"`
	Symbol               string    `json:"symbol" yaml:"symbol" validate:"required"`
	Direction            Direction `json:"direction" yaml:"direction" validate:"required,oneof=long short"`
	EntryPrice           float64   `json:"entry_price" yaml:"entry_price" validate:"required,gt=0"`
	CurrentPrice         float64   `json:"current_price" yaml:"current_price" validate:"gte=0"`
	Leverage             int       `json:"leverage" yaml:"leverage" validate:"required,gte=1,lte=10"`
	PositionSize         float64   `json:"position_size" yaml:"position_size" validate:"required,gt=0"`
	MarginUsed           float64   `json:"margin_used" yaml:"margin_used" validate:"required,gt=0"`
	TakeProfitPrice      float64   `json:"take_profit_price" yaml:"take_profit_price" validate:"gte=0"`
	StopLossPrice        float64   `json:"stop_loss_price" yaml:"stop_loss_price" validate:"gte=0"`
	Confidence           int       `json:"confidence" yaml:"confidence" validate:"gte=0,lte=100"`
	Reasoning            string    `json:"reasoning" yaml:"reasoning"`
	OpenedAt             time.Time `json:"opened_at" yaml:"opened_at" validate:"required"`
	UnrealizedPnL        float64   `json:"unrealized_pnl" yaml:"unrealized_pnl"`
	UnrealizedPnLPercent float64   `json:"unrealized_pnl_percent" yaml:"unrealized_pnl_percent"`
}

// Validate checks the field constraints of a freshly constructed position.
func (p *Position) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPosition, "invalid position", err)
	}

	return nil
}

// ClosedTrade is the immutable archive record of a closed position. Position
// fields are copied rather than referenced so history stays valid after the
// position row is deleted.
type ClosedTrade struct {
	ID                 string      `json:"id" yaml:"id"`
	PositionID         string      `json:"position_id" yaml:"position_id"`
	Symbol             string      `json:"symbol" yaml:"symbol"`
	Direction          Direction   `json:"direction" yaml:"direction"`
	EntryPrice         float64     `json:"entry_price" yaml:"entry_price"`
	ClosePrice         float64     `json:"close_price" yaml:"close_price"`
	Leverage           int         `json:"leverage" yaml:"leverage"`
	PositionSize       float64     `json:"position_size" yaml:"position_size"`
	MarginUsed         float64     `json:"margin_used" yaml:"margin_used"`
	TakeProfitPrice    float64     `json:"take_profit_price" yaml:"take_profit_price"`
	StopLossPrice      float64     `json:"stop_loss_price" yaml:"stop_loss_price"`
	Confidence         int         `json:"confidence" yaml:"confidence"`
	Reasoning          string      `json:"reasoning" yaml:"reasoning"`
	OpenedAt           time.Time   `json:"opened_at" yaml:"opened_at"`
	ClosedAt           time.Time   `json:"closed_at" yaml:"closed_at"`
	CloseReason        CloseReason `json:"close_reason" yaml:"close_reason"`
	RealizedPnL        float64     `json:"realized_pnl" yaml:"realized_pnl"`
	RealizedPnLPercent float64     `json:"realized_pnl_percent" yaml:"realized_pnl_percent"`
	WasProfitable      bool        `json:"was_profitable" yaml:"was_profitable"`
	HitTarget          bool        `json:"hit_target" yaml:"hit_target"`
}
