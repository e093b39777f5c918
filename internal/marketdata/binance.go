package marketdata

import (
	"context"
	"strconv"
	"strings"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/rxtech-lab/papertrade/pkg/errors"
)

// BinanceProvider serves quotes and daily klines from the public Binance
// endpoints. No API key is needed for market data.
type BinanceProvider struct {
	client *binance.Client
}

func NewBinanceProvider() *BinanceProvider {
	return &BinanceProvider{
		client: binance.NewClient("", ""),
	}
}

func (p *BinanceProvider) FetchQuotes(ctx context.Context, symbols []string) (types.PriceMap, error) {
	quotes := make(types.PriceMap, len(symbols))

	for _, symbol := range symbols {
		stats, err := p.client.NewListPriceChangeStatsService().
			Symbol(binancePair(symbol)).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch ticker stats for %s", symbol)
		}

		if len(stats) == 0 {
			continue
		}

		quote, err := quoteFromStats(symbol, stats[0])
		if err != nil {
			return nil, err
		}

		quotes[symbol] = quote
	}

	return quotes, nil
}

func (p *BinanceProvider) FetchPriceHistory(ctx context.Context, symbol string, days int) ([]types.PricePoint, error) {
	klines, err := p.client.NewKlinesService().
		Symbol(binancePair(symbol)).
		Interval("1d").
		Limit(days).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", symbol)
	}

	points := make([]types.PricePoint, 0, len(klines))

	for _, k := range klines {
		price, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse close price %q for %s", k.Close, symbol)
		}

		points = append(points, types.PricePoint{
			Timestamp: time.UnixMilli(k.OpenTime).UTC(),
			Price:     price,
		})
	}

	return points, nil
}

func quoteFromStats(symbol string, stats *binance.PriceChangeStats) (types.PriceQuote, error) {
	price, err := strconv.ParseFloat(stats.LastPrice, 64)
	if err != nil {
		return types.PriceQuote{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse last price %q for %s", stats.LastPrice, symbol)
	}

	change, err := strconv.ParseFloat(stats.PriceChangePercent, 64)
	if err != nil {
		return types.PriceQuote{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse price change %q for %s", stats.PriceChangePercent, symbol)
	}

	volume, err := strconv.ParseFloat(stats.QuoteVolume, 64)
	if err != nil {
		return types.PriceQuote{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse volume %q for %s", stats.QuoteVolume, symbol)
	}

	return types.PriceQuote{
		Symbol:    symbol,
		Price:     price,
		Change24h: change,
		Volume24h: volume,
	}, nil
}

// binancePair maps a bare asset symbol to its USDT spot pair.
func binancePair(symbol string) string {
	upper := strings.ToUpper(symbol)
	if strings.HasSuffix(upper, "USDT") {
		return upper
	}

	return upper + "USDT"
}
