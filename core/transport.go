package core

import "context"

// QueryRequest describes a read against a remote table: which fields to
// project, and optional filtering, ordering and paging.
type QueryRequest struct {
	Fields  []string    `json:"fields"`
	Where   []Filter    `json:"where,omitempty"`
	OrderBy []SortField `json:"orderBy,omitempty"`
	Paging  *Pagination `json:"pagingInfo,omitempty"`
}

// QueryResponse is the remote envelope for multi-record reads
type QueryResponse struct {
	Success bool     `json:"success"`
	Data    []Record `json:"data,omitempty"`
	Total   int64    `json:"total,omitempty"`
	Message string   `json:"message,omitempty"`
}

// RecordResponse is the remote envelope for single-record reads. A success
// envelope with nil Data means the record does not exist.
type RecordResponse struct {
	Success bool   `json:"success"`
	Data    Record `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// FieldError is a field-level validation reason attached to a write result
type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

// WriteResult is the per-record result of a batch write
type WriteResult struct {
	Success bool         `json:"success"`
	Data    Record       `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// WriteResponse is the remote envelope for batch create/update calls
type WriteResponse struct {
	Success bool          `json:"success"`
	Results []WriteResult `json:"results,omitempty"`
	Message string        `json:"message,omitempty"`
}

// RemoveResult is the per-record result of a batch delete
type RemoveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RemoveResponse is the remote envelope for batch delete calls
type RemoveResponse struct {
	Success bool           `json:"success"`
	Results []RemoveResult `json:"results,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Transport is the remote backend boundary. Implementations translate these
// calls into the hosted-data API (adapters/apper) or a local store
// (adapters/local). A returned error means the call itself could not
// complete; remote-reported failures travel in the envelope's success flag
// and message instead.
type Transport interface {
	Query(ctx context.Context, table string, req QueryRequest) (QueryResponse, error)
	QueryOne(ctx context.Context, table string, id int, req QueryRequest) (RecordResponse, error)
	Write(ctx context.Context, table string, records []Record) (WriteResponse, error)
	Remove(ctx context.Context, table string, ids []int) (RemoveResponse, error)
}
