package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
)

// Field names a searchable product text column.
type Field string

const (
	FieldName        Field = "name"
	FieldBrand       Field = "brand"
	FieldDescription Field = "description"
)

// AllFields lists every searchable field in boost priority order.
var AllFields = []Field{FieldName, FieldBrand, FieldDescription}

var fieldColumns = map[Field]string{
	FieldName:        "search_name",
	FieldBrand:       "search_brand",
	FieldDescription: "search_description",
}

// Text returns the product's value for the field.
func (f Field) Text(p *models.Product) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldBrand:
		return p.BrandName()
	case FieldDescription:
		return p.Description
	}
	return ""
}

// CandidateFilter narrows the active catalog before fuzzy scoring. A product is a
// candidate when a word of any of Fields, case and diacritic folded, starts with
// any of Prefixes. Limit is the page size and After the keyset cursor.
type CandidateFilter struct {
	Fields        []Field
	Prefixes      []string
	SupermarketID *uuid.UUID
	MaxPrice      *decimal.Decimal
	InStockOnly   bool
	After         *uuid.UUID
	Limit         int
}

// ContextIDs lists the references to resolve for a batch of products.
type ContextIDs struct {
	CategoryIDs    []uuid.UUID
	BranchIDs      []uuid.UUID
	SupermarketIDs []uuid.UUID
}

// Context holds the category, branch and supermarket rows for a batch of products.
type Context struct {
	Categories   map[uuid.UUID]models.Category
	Branches     map[uuid.UUID]models.Branch
	Supermarkets map[uuid.UUID]models.Supermarket
}

// ContextIDsFor collects the unique references of the provided products.
func ContextIDsFor(products []models.Product) ContextIDs {
	var ids ContextIDs
	seen := map[uuid.UUID]struct{}{}
	add := func(dst *[]uuid.UUID, id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		*dst = append(*dst, id)
	}
	for _, p := range products {
		add(&ids.CategoryIDs, p.CategoryID)
		add(&ids.BranchIDs, p.BranchID)
		add(&ids.SupermarketIDs, p.SupermarketID)
	}
	return ids
}
