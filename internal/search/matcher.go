package search

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricepal-backend/internal/catalog"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
)

const (
	nameBoost  = 2.0
	brandBoost = 1.5

	// DefaultMinScore is the exclusive relevance threshold.
	DefaultMinScore = 0.5
)

// ScoredProduct is a matcher candidate with its composite relevance.
type ScoredProduct struct {
	Product models.Product
	Score   float64
}

// MatcherConfig tunes fuzzy tolerance and the relevance threshold.
type MatcherConfig struct {
	Fuzzy          FuzzyOptions
	MinScore       float64
	CandidateLimit int
}

// Matcher scores catalog hits with field boosting and drops noise matches.
type Matcher struct {
	index CatalogSearchIndex
	cfg   MatcherConfig
}

// NewMatcher builds a matcher over the provided index.
func NewMatcher(index CatalogSearchIndex, cfg MatcherConfig) *Matcher {
	if cfg.MinScore <= 0 {
		cfg.MinScore = DefaultMinScore
	}
	return &Matcher{index: index, cfg: cfg}
}

// Match returns active, in-scope products scoring above the threshold, in index order.
func (m *Matcher) Match(ctx context.Context, terms []string, scope TenantScope, priceCeiling *float64) ([]ScoredProduct, error) {
	hits, err := m.index.SearchFuzzy(ctx, FuzzyQuery{
		Fields:       catalog.AllFields,
		Terms:        terms,
		Options:      m.cfg.Fuzzy,
		Scope:        scope,
		PriceCeiling: priceCeiling,
		Limit:        m.cfg.CandidateLimit,
	})
	if err != nil {
		return nil, err
	}

	var ceiling *decimal.Decimal
	if priceCeiling != nil {
		c := decimal.NewFromFloat(*priceCeiling)
		ceiling = &c
	}

	out := make([]ScoredProduct, 0, len(hits))
	for _, hit := range hits {
		if !hit.Product.IsActive || !scope.Allows(hit.Product.SupermarketID) {
			continue
		}
		if ceiling != nil && hit.Product.UnitPrice.GreaterThan(*ceiling) {
			continue
		}
		score := CompositeScore(hit.Fields)
		if score <= m.cfg.MinScore {
			continue
		}
		out = append(out, ScoredProduct{Product: hit.Product, Score: score})
	}
	return out, nil
}

// CompositeScore boosts the base score by the field the match concentrates in:
// x2 when name leads, x1.5 when brand leads, otherwise unboosted.
func CompositeScore(f FieldScores) float64 {
	base := f.Total()
	switch {
	case f.Name > 0 && f.Name >= f.Brand && f.Name >= f.Description:
		return base * nameBoost
	case f.Brand > 0 && f.Brand >= f.Description:
		return base * brandBoost
	default:
		return base
	}
}
