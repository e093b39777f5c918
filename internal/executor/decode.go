package executor

import (
	"strings"

	json "github.com/bytedance/sonic"
	"github.com/kaptinlin/jsonrepair"
	"github.com/rxtech-lab/papertrade/internal/types"
	"github.com/rxtech-lab/papertrade/pkg/errors"
)

// DecodeRecommendations parses the advisory response. The payload arrives
// from an external process and is often wrapped in markdown fences or
// slightly malformed, so after stripping fences a failed parse goes through
// a repair pass before giving up.
func DecodeRecommendations(payload string) (types.RecommendationSet, error) {
	cleaned := stripFences(payload)

	var set types.RecommendationSet
	if err := json.Unmarshal([]byte(cleaned), &set); err == nil {
		return set, nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return FallbackRecommendations(), errors.Wrap(errors.ErrCodeMalformedRecommendation, "failed to repair recommendation payload", err)
	}

	if err := json.Unmarshal([]byte(repaired), &set); err != nil {
		return FallbackRecommendations(), errors.Wrap(errors.ErrCodeMalformedRecommendation, "failed to parse recommendation payload", err)
	}

	return set, nil
}

// FallbackRecommendations is the safe empty response used when the advisory
// payload cannot be parsed: no trades, stance avoid.
func FallbackRecommendations() types.RecommendationSet {
	return types.RecommendationSet{
		Recommendations:     []types.Recommendation{},
		OverallMarketStance: types.StanceAvoid,
		PortfolioAdvice:     "Recommendation payload could not be parsed; holding off this cycle.",
	}
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(payload string) string {
	trimmed := strings.TrimSpace(payload)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		trimmed = trimmed[idx+1:]
	}

	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}
