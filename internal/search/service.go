package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricepal-backend/pkg/db"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
	"github.com/angelmondragon/pricepal-backend/pkg/logger"
	"github.com/angelmondragon/pricepal-backend/pkg/metrics"
	"github.com/angelmondragon/pricepal-backend/pkg/redis"
)

const (
	operationQuery  = "query"
	operationDetail = "detail"

	// DefaultCallTimeout bounds one catalog round trip.
	DefaultCallTimeout = 2 * time.Second
)

// Service exposes product search to the transport layer.
type Service interface {
	Query(ctx context.Context, input QueryInput) (*QueryResult, error)
	ProductDetail(ctx context.Context, productID uuid.UUID, scope TenantScope) (*ProductDetail, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// QueryInput is one free-text search.
type QueryInput struct {
	Query   string
	IsVoice bool
	Scope   TenantScope
}

// PriceRange echoes the extracted ceiling; nil means unbounded.
type PriceRange struct {
	MaxPrice *float64 `json:"max_price"`
}

// QueryResult is the ranked search response.
type QueryResult struct {
	Count       int              `json:"count"`
	SearchTerms []string         `json:"search_terms"`
	PriceRange  PriceRange       `json:"price_range"`
	Results     []EnrichedResult `json:"results"`
}

// ServiceParams bundles the dependencies required to build a search service.
type ServiceParams struct {
	Normalizer  *Normalizer
	Matcher     *Matcher
	Assembler   *Assembler
	Products    productLoader
	Cache       redis.Cache
	CacheTTL    time.Duration
	CallTimeout time.Duration
	Metrics     *metrics.SearchMetrics
	Logger      *logger.Logger
}

type service struct {
	normalizer  *Normalizer
	matcher     *Matcher
	assembler   *Assembler
	products    productLoader
	cache       redis.Cache
	cacheTTL    time.Duration
	callTimeout time.Duration
	metrics     *metrics.SearchMetrics
	logg        *logger.Logger
}

// NewService constructs the search service. Cache and Metrics are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	if params.Assembler == nil {
		return nil, fmt.Errorf("assembler is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	normalizer := params.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	timeout := params.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &service{
		normalizer:  normalizer,
		matcher:     params.Matcher,
		assembler:   params.Assembler,
		products:    params.Products,
		cache:       params.Cache,
		cacheTTL:    params.CacheTTL,
		callTimeout: timeout,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}, nil
}

func (s *service) Query(ctx context.Context, input QueryInput) (*QueryResult, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration(operationQuery, time.Since(started)) }()

	q, err := s.normalizer.Normalize(input.Query, input.IsVoice)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"search_terms": strings.Join(q.Terms, " "),
		"tenant_scope": input.Scope.CacheKey(),
	})

	cacheKey := ""
	if s.cache != nil && s.cacheTTL > 0 {
		cacheKey = s.cache.SearchCacheKey(queryDigest(q, input.Scope))
		if cached, ok := s.readCache(ctx, cacheKey); ok {
			s.logg.Debug(ctx, "search.cache.hit")
			s.metrics.ObserveResults(cached.Count)
			return cached, nil
		}
	}

	results, err := s.runQuery(ctx, q, input.Scope)
	if err != nil {
		return nil, err
	}

	out := &QueryResult{
		Count:       len(results),
		SearchTerms: q.Terms,
		PriceRange:  PriceRange{MaxPrice: q.PriceCeiling},
		Results:     results,
	}
	s.metrics.ObserveResults(out.Count)

	if cacheKey != "" {
		s.writeCache(ctx, cacheKey, out)
	}
	return out, nil
}

func (s *service) runQuery(ctx context.Context, q *Query, scope TenantScope) ([]EnrichedResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	candidates, err := s.matcher.Match(callCtx, q.Terms, scope, q.PriceCeiling)
	if err != nil {
		return nil, upstreamError(err)
	}
	results, err := s.assembler.Assemble(callCtx, candidates)
	if err != nil {
		return nil, upstreamError(err)
	}
	return results, nil
}

func (s *service) ProductDetail(ctx context.Context, productID uuid.UUID, scope TenantScope) (*ProductDetail, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration(operationDetail, time.Since(started)) }()

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	product, err := s.products.FindByID(callCtx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, upstreamError(err)
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !scope.Allows(product.SupermarketID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another supermarket")
	}

	detail, err := s.assembler.Detail(callCtx, *product)
	if err != nil {
		return nil, upstreamError(err)
	}
	return detail, nil
}

func (s *service) readCache(ctx context.Context, key string) (*QueryResult, bool) {
	raw, ok, err := s.cache.GetCached(ctx, key)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "search.cache.read_failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out QueryResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "search.cache.decode_failed")
		return nil, false
	}
	return &out, true
}

func (s *service) writeCache(ctx context.Context, key string, result *QueryResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "search.cache.encode_failed")
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "search.cache.write_failed")
	}
}

func queryDigest(q *Query, scope TenantScope) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(q.Terms, "\x1f")))
	h.Write([]byte{0})
	if q.PriceCeiling != nil {
		h.Write([]byte(strconv.FormatFloat(*q.PriceCeiling, 'f', -1, 64)))
	}
	h.Write([]byte{0})
	h.Write([]byte(scope.CacheKey()))
	return hex.EncodeToString(h.Sum(nil))
}

// upstreamError maps catalog failures to a retryable dependency error.
func upstreamError(err error) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search timed out")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search backend unavailable")
}
