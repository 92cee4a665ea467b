package search

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricepal-backend/internal/catalog"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
	"github.com/angelmondragon/pricepal-backend/pkg/enums"
	"github.com/angelmondragon/pricepal-backend/pkg/types"
)

// ContextLoader resolves category, branch and supermarket rows for products.
type ContextLoader interface {
	LoadContext(ctx context.Context, ids catalog.ContextIDs) (*catalog.Context, error)
}

// BranchSummary is the branch block of a result.
type BranchSummary struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Location types.Location `json:"location"`
}

// EnrichedResult is a product joined with its tenant context.
type EnrichedResult struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Price          float64       `json:"price"`
	Description    string        `json:"description"`
	Brand          *string       `json:"brand"`
	Category       string        `json:"category"`
	Supermarket    string        `json:"supermarket"`
	SupermarketID  uuid.UUID     `json:"supermarket_id"`
	Branch         BranchSummary `json:"branch"`
	Images         []string      `json:"images"`
	Stock          int           `json:"stock"`
	RelevanceScore float64       `json:"relevance_score"`

	unitPrice decimal.Decimal
}

// ProductDetail is the single-product view.
type ProductDetail struct {
	EnrichedResult
	SKU           string                  `json:"sku"`
	Unit          enums.UnitOfMeasurement `json:"unit"`
	Discount      int                     `json:"discount"`
	DiscountPrice float64                 `json:"discount_price"`
	CategoryID    uuid.UUID               `json:"category_id"`
}

// Assembler enriches, deduplicates and ranks matcher output.
type Assembler struct {
	loader ContextLoader
}

// NewAssembler builds an assembler over the context loader.
func NewAssembler(loader ContextLoader) *Assembler {
	return &Assembler{loader: loader}
}

// Assemble dedups equivalent offers, joins context and sorts by score desc then price asc.
func (a *Assembler) Assemble(ctx context.Context, candidates []ScoredProduct) ([]EnrichedResult, error) {
	results, err := a.Enrich(ctx, Dedupe(candidates))
	if err != nil {
		return nil, err
	}
	SortResults(results)
	return results, nil
}

// Enrich joins context onto candidates without reordering them.
func (a *Assembler) Enrich(ctx context.Context, candidates []ScoredProduct) ([]EnrichedResult, error) {
	if len(candidates) == 0 {
		return []EnrichedResult{}, nil
	}

	products := make([]models.Product, 0, len(candidates))
	for _, c := range candidates {
		products = append(products, c.Product)
	}
	joined, err := a.loader.LoadContext(ctx, catalog.ContextIDsFor(products))
	if err != nil {
		return nil, err
	}

	out := make([]EnrichedResult, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, enrich(c, joined))
	}
	return out, nil
}

// Detail builds the single-product view.
func (a *Assembler) Detail(ctx context.Context, product models.Product) (*ProductDetail, error) {
	joined, err := a.loader.LoadContext(ctx, catalog.ContextIDsFor([]models.Product{product}))
	if err != nil {
		return nil, err
	}
	return &ProductDetail{
		EnrichedResult: enrich(ScoredProduct{Product: product}, joined),
		SKU:            product.SKU,
		Unit:           product.Unit,
		Discount:       product.Discount,
		DiscountPrice:  product.DiscountPrice.InexactFloat64(),
		CategoryID:     product.CategoryID,
	}, nil
}

func enrich(c ScoredProduct, joined *catalog.Context) EnrichedResult {
	p := c.Product
	branch := joined.Branches[p.BranchID]
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return EnrichedResult{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.UnitPrice.InexactFloat64(),
		Description:   p.Description,
		Brand:         p.Brand,
		Category:      joined.Categories[p.CategoryID].Name,
		Supermarket:   joined.Supermarkets[p.SupermarketID].Name,
		SupermarketID: p.SupermarketID,
		Branch: BranchSummary{
			ID:       p.BranchID,
			Name:     branch.Name,
			Location: branch.Location,
		},
		Images:         images,
		Stock:          p.Stock,
		RelevanceScore: c.Score,
		unitPrice:      p.UnitPrice,
	}
}

// Dedupe keeps the first candidate per (supermarket, folded name, unit price).
func Dedupe(candidates []ScoredProduct) []ScoredProduct {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]ScoredProduct, 0, len(candidates))
	for _, c := range candidates {
		key := c.Product.SupermarketID.String() + "|" + Fold(strings.TrimSpace(c.Product.Name)) + "|" + c.Product.UnitPrice.StringFixed(2)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SortResults orders by relevance descending, then unit price ascending.
func SortResults(results []EnrichedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		return results[i].unitPrice.LessThan(results[j].unitPrice)
	})
}
