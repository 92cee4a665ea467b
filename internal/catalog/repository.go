package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
	"github.com/angelmondragon/pricepal-backend/pkg/textnorm"
)

// DefaultCandidateLimit is the page size when the caller does not set one.
const DefaultCandidateLimit = 500

// Repository is the gorm-backed catalog store.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindCandidates returns one page of active products with a word in Fields
// starting with any of Prefixes. Pages are ordered by id; pass the last id of a
// page as After to read the next one.
func (r *Repository) FindCandidates(ctx context.Context, filter CandidateFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if filter.SupermarketID != nil {
		query = query.Where("supermarket_id = ?", *filter.SupermarketID)
	}
	if filter.MaxPrice != nil {
		query = query.Where("unit_price <= ?", *filter.MaxPrice)
	}
	if filter.InStockOnly {
		query = query.Where("stock > 0")
	}

	if filter.After != nil {
		query = query.Where("id > ?", *filter.After)
	}

	if clause, args := prefixClause(filter.Fields, filter.Prefixes); clause != "" {
		query = query.Where(clause, args...)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	var rows []models.Product
	if err := query.
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func prefixClause(fields []Field, prefixes []string) (string, []any) {
	if len(prefixes) == 0 {
		return "", nil
	}
	if len(fields) == 0 {
		fields = AllFields
	}
	parts := make([]string, 0, len(fields)*len(prefixes))
	args := make([]any, 0, len(fields)*len(prefixes))
	for _, field := range fields {
		column, ok := fieldColumns[field]
		if !ok {
			continue
		}
		for _, prefix := range prefixes {
			prefix = textnorm.Fold(strings.TrimSpace(prefix))
			if prefix == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, column))
			args = append(args, "% "+escapeLike(prefix)+"%")
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

// FindByID loads a single product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// LoadContext batch-loads the categories, branches and supermarkets referenced by a result set.
func (r *Repository) LoadContext(ctx context.Context, ids ContextIDs) (*Context, error) {
	out := &Context{
		Categories:   map[uuid.UUID]models.Category{},
		Branches:     map[uuid.UUID]models.Branch{},
		Supermarkets: map[uuid.UUID]models.Supermarket{},
	}

	if len(ids.CategoryIDs) > 0 {
		var rows []models.Category
		if err := r.db.WithContext(ctx).Where("id IN ?", ids.CategoryIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		for _, row := range rows {
			out.Categories[row.ID] = row
		}
	}

	if len(ids.BranchIDs) > 0 {
		var rows []models.Branch
		if err := r.db.WithContext(ctx).Where("id IN ?", ids.BranchIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("load branches: %w", err)
		}
		for _, row := range rows {
			out.Branches[row.ID] = row
		}
	}

	if len(ids.SupermarketIDs) > 0 {
		var rows []models.Supermarket
		if err := r.db.WithContext(ctx).Where("id IN ?", ids.SupermarketIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("load supermarkets: %w", err)
		}
		for _, row := range rows {
			out.Supermarkets[row.ID] = row
		}
	}

	return out, nil
}
