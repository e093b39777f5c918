package marketdata

import (
	"context"

	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/rxtech-lab/papertrade/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderBinance ProviderType = "binance"
	ProviderPolygon ProviderType = "polygon"
)

// Provider fetches live quotes and daily price history. Implementations must
// be safe for concurrent use; all calls take a context so a slow upstream can
// be cancelled before the ledger's write lock is ever involved.
type Provider interface {
	// FetchQuotes returns current quotes for the given symbols. Symbols the
	// upstream does not know are absent from the result, not an error.
	FetchQuotes(ctx context.Context, symbols []string) (types.PriceMap, error)
	// FetchPriceHistory returns up to days daily closing prices for the
	// symbol in chronological order.
	FetchPriceHistory(ctx context.Context, symbol string, days int) ([]types.PricePoint, error)
}

// NewProvider creates a market data provider based on the provider type.
func NewProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceProvider(), nil
	case ProviderPolygon:
		if apiKey == "" {
			return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires an API key")
		}

		return NewPolygonProvider(apiKey), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
