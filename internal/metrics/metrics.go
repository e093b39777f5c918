package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PositionsOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papertrade_positions_opened_total",
			Help: "Total number of positions opened (by symbol).",
		},
		[]string{"symbol"},
	)

	PositionsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papertrade_positions_closed_total",
			Help: "Total number of positions closed (by close reason).",
		},
		[]string{"reason"},
	)

	// A gauge rather than a counter: realized PnL moves in both directions.
	RealizedPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "papertrade_realized_pnl_total",
			Help: "Cumulative realized profit and loss in quote currency.",
		},
	)

	OpenPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "papertrade_open_positions",
			Help: "Current number of open positions.",
		},
	)

	BalanceGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "papertrade_balance",
			Help: "Current free balance of the portfolio.",
		},
	)
)

func init() {
	prometheus.MustRegister(PositionsOpened, PositionsClosed, RealizedPnL, OpenPositions, BalanceGauge)
}
