package search

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricepal-backend/internal/catalog"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
)

// CandidateStore is the catalog read used to prefilter fuzzy matching.
type CandidateStore interface {
	FindCandidates(ctx context.Context, filter catalog.CandidateFilter) ([]models.Product, error)
}

// CatalogSearchIndex runs typo-tolerant matching over catalog text fields.
type CatalogSearchIndex interface {
	SearchFuzzy(ctx context.Context, q FuzzyQuery) ([]Hit, error)
}

// FuzzyQuery is one fuzzy lookup. Terms may hold multi-word phrases. Limit is
// the candidate page size; every matching page is scored.
type FuzzyQuery struct {
	Fields       []catalog.Field
	Terms        []string
	Options      FuzzyOptions
	Scope        TenantScope
	PriceCeiling *float64
	InStockOnly  bool
	Limit        int
}

// FieldScores holds per-field coverage in [0,1].
type FieldScores struct {
	Name        float64
	Brand       float64
	Description float64
}

// Total is the unboosted text-match score.
func (f FieldScores) Total() float64 {
	return f.Name + f.Brand + f.Description
}

func (f *FieldScores) set(field catalog.Field, value float64) {
	switch field {
	case catalog.FieldName:
		f.Name = value
	case catalog.FieldBrand:
		f.Brand = value
	case catalog.FieldDescription:
		f.Description = value
	}
}

// Hit is a product with a positive text match.
type Hit struct {
	Product models.Product
	Fields  FieldScores
}

// StoreIndex scores catalog candidates in process.
type StoreIndex struct {
	store CandidateStore
}

// NewStoreIndex wraps a candidate store.
func NewStoreIndex(store CandidateStore) *StoreIndex {
	return &StoreIndex{store: store}
}

// SearchFuzzy pages through every prefiltered candidate and returns hits in
// candidate order; products with no matching field are dropped.
func (i *StoreIndex) SearchFuzzy(ctx context.Context, q FuzzyQuery) ([]Hit, error) {
	fields := q.Fields
	if len(fields) == 0 {
		fields = catalog.AllFields
	}

	queryTokens := make([]string, 0, len(q.Terms))
	for _, term := range q.Terms {
		queryTokens = append(queryTokens, Tokenize(term)...)
	}
	queryTokens = dedupe(queryTokens)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	filter := catalog.CandidateFilter{
		Fields:        fields,
		Prefixes:      candidatePrefixes(queryTokens, q.Options.PrefixLength),
		SupermarketID: q.Scope.SupermarketID,
		InStockOnly:   q.InStockOnly,
	}
	if q.PriceCeiling != nil {
		ceiling := decimal.NewFromFloat(*q.PriceCeiling)
		filter.MaxPrice = &ceiling
	}

	pageSize := q.Limit
	if pageSize <= 0 {
		pageSize = catalog.DefaultCandidateLimit
	}
	filter.Limit = pageSize

	var hits []Hit
	for {
		products, err := i.store.FindCandidates(ctx, filter)
		if err != nil {
			return nil, err
		}
		for idx := range products {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			product := products[idx]
			var scores FieldScores
			for _, field := range fields {
				scores.set(field, fieldCoverage(queryTokens, Tokenize(field.Text(&product)), q.Options))
			}
			if scores.Total() <= 0 {
				continue
			}
			hits = append(hits, Hit{Product: product, Fields: scores})
		}
		if len(products) < pageSize {
			return hits, nil
		}
		last := products[len(products)-1].ID
		filter.After = &last
	}
}

// candidatePrefixes narrows the SQL prefilter to rows with a word sharing a
// leading run with a query token.
func candidatePrefixes(tokens []string, prefixLength int) []string {
	if prefixLength <= 0 {
		return nil
	}
	n := min(prefixLength, 3)
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		r := []rune(token)
		if len(r) > n {
			r = r[:n]
		}
		out = append(out, string(r))
	}
	return dedupe(out)
}
