package shoppinglist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/pricepal-backend/internal/cart"
	"github.com/angelmondragon/pricepal-backend/internal/catalog"
	"github.com/angelmondragon/pricepal-backend/internal/search"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
	"github.com/angelmondragon/pricepal-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
	"github.com/angelmondragon/pricepal-backend/pkg/logger"
	"github.com/angelmondragon/pricepal-backend/pkg/metrics"
)

const (
	defaultConcurrency = 4
	defaultCallTimeout = 2 * time.Second
)

// listFields are searched as one clause per term, without field boosting.
var listFields = []catalog.Field{catalog.FieldName, catalog.FieldDescription}

type cartMerger interface {
	MergeLines(ctx context.Context, customerID uuid.UUID, lines []cart.Line, mode cart.MergeMode) (*models.Cart, error)
}

type enricher interface {
	Enrich(ctx context.Context, candidates []search.ScoredProduct) ([]search.EnrichedResult, error)
}

// Service resolves free-text shopping lists into cart lines.
type Service interface {
	Process(ctx context.Context, customerID uuid.UUID, list string) (*Result, error)
	Update(ctx context.Context, customerID uuid.UUID, list string) (*Result, error)
	Clear(ctx context.Context, customerID uuid.UUID) (*cart.CartDTO, error)
}

// Item pairs a parsed term with its cheapest match; Product is nil when nothing matched.
type Item struct {
	SearchTerm string                 `json:"search_term"`
	Product    *search.EnrichedResult `json:"product"`
}

// Result is the outcome of a resolved list.
type Result struct {
	ProcessedItems   []string                `json:"processed_items"`
	CheapestProducts []Item                  `json:"cheapest_products"`
	Cart             *cart.CartDTO           `json:"cart"`
	State            enums.ShoppingListState `json:"state"`
}

// ServiceParams bundles the dependencies required to build a shopping-list service.
type ServiceParams struct {
	Analyzer       search.TextAnalyzer
	Index          search.CatalogSearchIndex
	Enricher       enricher
	Carts          cartMerger
	Fuzzy          search.FuzzyOptions
	CandidateLimit int
	CallTimeout    time.Duration
	Concurrency    int
	Metrics        *metrics.SearchMetrics
	Logger         *logger.Logger
}

type service struct {
	analyzer       search.TextAnalyzer
	index          search.CatalogSearchIndex
	enricher       enricher
	carts          cartMerger
	fuzzy          search.FuzzyOptions
	candidateLimit int
	callTimeout    time.Duration
	concurrency    int
	metrics        *metrics.SearchMetrics
	logg           *logger.Logger
}

// NewService constructs the shopping-list resolver.
func NewService(params ServiceParams) (Service, error) {
	if params.Index == nil {
		return nil, fmt.Errorf("search index is required")
	}
	if params.Enricher == nil {
		return nil, fmt.Errorf("enricher is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart merger is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	analyzer := params.Analyzer
	if analyzer == nil {
		analyzer = search.NewAnalyzer()
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	timeout := params.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &service{
		analyzer:       analyzer,
		index:          params.Index,
		enricher:       params.Enricher,
		carts:          params.Carts,
		fuzzy:          params.Fuzzy,
		candidateLimit: params.CandidateLimit,
		callTimeout:    timeout,
		concurrency:    concurrency,
		metrics:        params.Metrics,
		logg:           params.Logger,
	}, nil
}

// Process merges the cheapest match per term into the cart, leaving existing lines untouched.
func (s *service) Process(ctx context.Context, customerID uuid.UUID, list string) (*Result, error) {
	return s.resolve(ctx, customerID, list, cart.MergeAdditive)
}

// Update replaces the cart contents with the cheapest match per term.
func (s *service) Update(ctx context.Context, customerID uuid.UUID, list string) (*Result, error) {
	return s.resolve(ctx, customerID, list, cart.MergeReplace)
}

// Clear empties the customer's cart, creating it when missing.
func (s *service) Clear(ctx context.Context, customerID uuid.UUID) (*cart.CartDTO, error) {
	saved, err := s.carts.MergeLines(ctx, customerID, nil, cart.MergeReplace)
	if err != nil {
		return nil, err
	}
	return cart.FromModel(saved), nil
}

func (s *service) resolve(ctx context.Context, customerID uuid.UUID, list string, mode cart.MergeMode) (*Result, error) {
	r := newRun()
	ctx = s.logg.WithFields(ctx, map[string]any{"merge_mode": string(mode)})

	terms := s.analyzer.ExtractNounPhrases(list)
	if len(terms) == 0 {
		r.fail()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no valid items found in the shopping list")
	}
	if err := r.advance(enums.ShoppingListParsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "shopping list state")
	}
	if err := r.advance(enums.ShoppingListResolving); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "shopping list state")
	}

	picks := s.pickCheapest(ctx, terms)

	matched := make([]search.ScoredProduct, 0, len(picks))
	lines := make([]cart.Line, 0, len(picks))
	for _, pick := range picks {
		if pick == nil {
			continue
		}
		matched = append(matched, *pick)
		lines = append(lines, cart.Line{
			ProductID: pick.Product.ID,
			BranchID:  pick.Product.BranchID,
			UnitPrice: pick.Product.UnitPrice,
		})
	}

	enriched, err := s.enricher.Enrich(ctx, matched)
	if err != nil {
		r.fail()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search backend unavailable")
	}

	saved, err := s.carts.MergeLines(ctx, customerID, lines, mode)
	if err != nil {
		r.fail()
		return nil, err
	}
	if err := r.advance(enums.ShoppingListMerged); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "shopping list state")
	}

	items := make([]Item, len(terms))
	next := 0
	for i, term := range terms {
		items[i] = Item{SearchTerm: term}
		if picks[i] != nil {
			result := enriched[next]
			items[i].Product = &result
			next++
		}
	}

	return &Result{
		ProcessedItems:   terms,
		CheapestProducts: items,
		Cart:             cart.FromModel(saved),
		State:            r.state,
	}, nil
}

// pickCheapest resolves every term concurrently. Results keep list order and a
// failed or empty term yields nil without affecting the others.
func (s *service) pickCheapest(ctx context.Context, terms []string) []*search.ScoredProduct {
	picks := make([]*search.ScoredProduct, len(terms))
	errs := make([]error, len(terms))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			defer cancel()

			hits, err := s.index.SearchFuzzy(callCtx, search.FuzzyQuery{
				Fields:      listFields,
				Terms:       []string{term},
				Options:     s.fuzzy,
				Scope:       search.AllTenants(enums.RoleCustomer),
				InStockOnly: true,
				Limit:       s.candidateLimit,
			})
			if err != nil {
				errs[i] = fmt.Errorf("term %q: %w", term, err)
				s.metrics.IncListTerm(metrics.OutcomeFailed)
				return nil
			}
			picks[i] = cheapest(hits)
			if picks[i] == nil {
				s.metrics.IncListTerm(metrics.OutcomeUnmatched)
			} else {
				s.metrics.IncListTerm(metrics.OutcomeMatched)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := multierr.Combine(errs...); err != nil {
		failed := len(multierr.Errors(err))
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"failed_terms": failed,
			"error":        err.Error(),
		}), "shopping_list.terms_unresolved")
	}
	return picks
}

// cheapest returns the lowest-priced active, in-stock hit; higher text score breaks ties.
func cheapest(hits []search.Hit) *search.ScoredProduct {
	var best *search.ScoredProduct
	for _, hit := range hits {
		p := hit.Product
		score := hit.Fields.Total()
		if !p.IsActive || p.Stock <= 0 || score <= 0 {
			continue
		}
		if best == nil ||
			p.UnitPrice.LessThan(best.Product.UnitPrice) ||
			(p.UnitPrice.Equal(best.Product.UnitPrice) && score > best.Score) {
			best = &search.ScoredProduct{Product: p, Score: score}
		}
	}
	return best
}
