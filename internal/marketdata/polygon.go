package marketdata

import (
	"context"
	"strings"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/rxtech-lab/papertrade/pkg/errors"
)

// PolygonProvider serves quotes and daily aggregates from the Polygon crypto
// endpoints.
type PolygonProvider struct {
	client *polygon.Client
}

func NewPolygonProvider(apiKey string) *PolygonProvider {
	return &PolygonProvider{
		client: polygon.New(apiKey),
	}
}

func (p *PolygonProvider) FetchQuotes(ctx context.Context, symbols []string) (types.PriceMap, error) {
	quotes := make(types.PriceMap, len(symbols))

	for _, symbol := range symbols {
		//nolint:exhaustruct // third-party struct with many optional fields
		params := models.GetPreviousCloseAggParams{
			Ticker: polygonTicker(symbol),
		}

		res, err := p.client.GetPreviousCloseAgg(ctx, &params)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch previous close for %s", symbol)
		}

		if len(res.Results) == 0 {
			continue
		}

		agg := res.Results[0]

		change := 0.0
		if agg.Open != 0 {
			change = (agg.Close - agg.Open) / agg.Open * 100
		}

		quotes[symbol] = types.PriceQuote{
			Symbol:    symbol,
			Price:     agg.Close,
			Change24h: change,
			Volume24h: agg.Volume,
		}
	}

	return quotes, nil
}

func (p *PolygonProvider) FetchPriceHistory(ctx context.Context, symbol string, days int) ([]types.PricePoint, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     polygonTicker(symbol),
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := p.client.ListAggs(ctx, params)

	var points []types.PricePoint

	for iter.Next() {
		agg := iter.Item()
		points = append(points, types.PricePoint{
			Timestamp: time.Time(agg.Timestamp).UTC(),
			Price:     agg.Close,
		})
	}

	if iter.Err() != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, iter.Err(), "failed to list aggregates for %s", symbol)
	}

	return points, nil
}

// polygonTicker maps a bare asset symbol to the Polygon crypto ticker format.
func polygonTicker(symbol string) string {
	upper := strings.ToUpper(symbol)
	if strings.HasPrefix(upper, "X:") {
		return upper
	}

	return "X:" + upper + "USD"
}
