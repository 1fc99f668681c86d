package core

import (
	"os"
	"strconv"
)

// Constants for pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// SortDirection represents the sort order
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SortPrecedence represents the precedence of sort configuration
type SortPrecedence int

const (
	SortPrecedenceNone          SortPrecedence = iota // Not configured (use auto-detection)
	SortPrecedenceExplicit                            // Explicitly configured via WithDefaultSort
	SortPrecedenceAutoCreatedOn                       // Auto-detected CreatedOn field
	SortPrecedenceAutoID                              // Fallback to Id field
)

// SortField represents a field to sort by with precedence tracking
type SortField struct {
	Field      string         `json:"fieldName"`
	Direction  SortDirection  `json:"sorttype"`
	Precedence SortPrecedence `json:"-"`
}

// FilterOperator names a predicate applied to a field in read operations
type FilterOperator string

const (
	OpEqualTo  FilterOperator = "EqualTo"
	OpContains FilterOperator = "Contains"
)

// Filter is one (field, predicate) pair; multiple filters combine with AND
type Filter struct {
	Field    string         `json:"fieldName"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value"`
}

// Pagination represents pagination parameters
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Query represents read options: filters, sorting, and pagination.
// A nil *Query on a list call means "whatever the remote defaults to":
// no filters, no explicit order, no paging.
type Query struct {
	Filters    []Filter    `json:"filters"`
	Sort       []SortField `json:"sort"`
	Pagination Pagination  `json:"pagination"`
}

// NewQuery creates a new Query with default pagination
func NewQuery() *Query {
	return &Query{
		Filters: []Filter{},
		Sort:    []SortField{},
		Pagination: Pagination{
			Limit:  getPageSizeFromEnv(),
			Offset: 0,
		},
	}
}

// WithFilter adds a filter to the query
func (q *Query) WithFilter(field string, op FilterOperator, value any) *Query {
	q.Filters = append(q.Filters, Filter{
		Field:    field,
		Operator: op,
		Value:    value,
	})
	return q
}

// WithSort adds a sort field to the query
func (q *Query) WithSort(field string, direction SortDirection) *Query {
	q.Sort = append(q.Sort, SortField{
		Field:     field,
		Direction: direction,
	})
	return q
}

// WithPagination sets pagination parameters, clamping out-of-range values
func (q *Query) WithPagination(limit, offset int) *Query {
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if limit <= 0 {
		limit = getPageSizeFromEnv()
	}
	if offset < 0 {
		offset = 0
	}

	q.Pagination.Limit = limit
	q.Pagination.Offset = offset
	return q
}

// NextPage creates a new query for the next page
func (q *Query) NextPage() *Query {
	nextQuery := &Query{
		Filters:    make([]Filter, len(q.Filters)),
		Sort:       make([]SortField, len(q.Sort)),
		Pagination: q.Pagination,
	}

	copy(nextQuery.Filters, q.Filters)
	copy(nextQuery.Sort, q.Sort)

	nextQuery.Pagination.Offset += nextQuery.Pagination.Limit

	return nextQuery
}

// GetCurrentPage returns the current page number (1-indexed)
func (q *Query) GetCurrentPage() int {
	if q.Pagination.Limit <= 0 {
		return 1
	}
	return (q.Pagination.Offset / q.Pagination.Limit) + 1
}

// HasFilters returns true if the query has any filters
func (q *Query) HasFilters() bool {
	return len(q.Filters) > 0
}

// HasSort returns true if the query has sorting
func (q *Query) HasSort() bool {
	return len(q.Sort) > 0
}

// GetPrimarySort returns the first sort field, or nil if none
func (q *Query) GetPrimarySort() *SortField {
	if len(q.Sort) > 0 {
		return &q.Sort[0]
	}
	return nil
}

// ApplyDefaultSort applies the resource's default sorting if no sort is set
func (q *Query) ApplyDefaultSort(resource *Resource) {
	if q.HasSort() {
		return
	}

	defaultSort := resource.GetEffectiveDefaultSort()
	q.WithSort(defaultSort.Field, defaultSort.Direction)
}

// getPageSizeFromEnv gets page size from environment variable or default
func getPageSizeFromEnv() int {
	if envSize := os.Getenv("STUDYFLOW_PAGE_SIZE"); envSize != "" {
		if size, err := strconv.Atoi(envSize); err == nil && size > 0 && size <= MaxPageSize {
			return size
		}
	}
	return DefaultPageSize
}

// String returns a string representation of the sort direction
func (sd SortDirection) String() string {
	return string(sd)
}

// IsValid checks if the sort direction is valid
func (sd SortDirection) IsValid() bool {
	return sd == SortAsc || sd == SortDesc
}

// Opposite returns the opposite sort direction
func (sd SortDirection) Opposite() SortDirection {
	if sd == SortAsc {
		return SortDesc
	}
	return SortAsc
}
