package inventory

import (
	"context"
	"fmt"
	"strings"
)

// Store persists stock ledger entries. Every method is a single-row operation
// except List; implementations provide their own concurrency safety.
type Store interface {
	// FindByID returns ErrProductNotFound when no product has the id.
	FindByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, spec PageSpec) (Page, error)
	// Create assigns p.ID.
	Create(ctx context.Context, p *Product) error
	// Update replaces every mutable column of the stored row.
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}

type SortField string

const (
	SortByID                SortField = "id"
	SortByName              SortField = "name"
	SortByAvailableQuantity SortField = "availableQuantity"
	SortByPrice             SortField = "price"
	SortByCreatedAt         SortField = "createdAt"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageSpec selects a zero-based page of products.
type PageSpec struct {
	Page int
	Size int
	Sort SortField
	Desc bool
}

// DefaultPageSpec lists the most recently created products first.
func DefaultPageSpec() PageSpec {
	return PageSpec{Page: 0, Size: DefaultPageSize, Sort: SortByCreatedAt, Desc: true}
}

// Normalize clamps out-of-range values and fills in the default sort.
func (s PageSpec) Normalize() PageSpec {
	if s.Page < 0 {
		s.Page = 0
	}
	if s.Size <= 0 {
		s.Size = DefaultPageSize
	}
	if s.Size > MaxPageSize {
		s.Size = MaxPageSize
	}
	if s.Sort == "" {
		s.Sort, s.Desc = SortByCreatedAt, true
	}
	return s
}

func (s PageSpec) Offset() int { return s.Page * s.Size }

// ParseSort reads a "field,direction" expression such as "price,asc".
// The direction defaults to descending.
func ParseSort(expr string) (SortField, bool, error) {
	field, dir, _ := strings.Cut(strings.TrimSpace(expr), ",")
	sf := SortField(strings.TrimSpace(field))
	switch sf {
	case SortByID, SortByName, SortByAvailableQuantity, SortByPrice, SortByCreatedAt:
	default:
		return "", false, ValidationErrors{{Field: "sort", Message: fmt.Sprintf("unsupported sort field %q", field)}}
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "desc":
		return sf, true, nil
	case "asc":
		return sf, false, nil
	default:
		return "", false, ValidationErrors{{Field: "sort", Message: fmt.Sprintf("unsupported sort direction %q", dir)}}
	}
}

type Page struct {
	Content       []Product `json:"content"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}

// NewPage builds a page result for the given spec and total row count.
func NewPage(content []Product, spec PageSpec, total int64) Page {
	if content == nil {
		content = []Product{}
	}
	pages := 0
	if spec.Size > 0 {
		pages = int((total + int64(spec.Size) - 1) / int64(spec.Size))
	}
	return Page{
		Content:       content,
		Page:          spec.Page,
		Size:          spec.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
