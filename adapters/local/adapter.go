// Package local implements core.Transport on an embedded sqlite database,
// mirroring the remote envelope contract: statement failures come back as
// non-success envelopes or per-record results, the way the hosted backend
// reports them. It exists for offline development and tests.
package local

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/apper-canvas/studyflow-beta-ether/core"
)

// Adapter implements the core.Transport interface using pure sql.DB
type Adapter struct {
	db     *sql.DB
	logger *SQLLogger
}

// New creates a new local sqlite adapter
func New(db *sql.DB) *Adapter {
	return NewWithDebug(db, false)
}

// NewWithDebug creates a new local adapter with debug logging enabled
func NewWithDebug(db *sql.DB, debugEnabled bool) *Adapter {
	return &Adapter{
		db:     db,
		logger: NewSQLLogger(debugEnabled),
	}
}

// SetDebugEnabled enables or disables SQL debug logging
func (a *Adapter) SetDebugEnabled(enabled bool) {
	a.logger.SetEnabled(enabled)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// quoteIdent validates and quotes a table or field name. Field names come
// from registered resource metadata, but quoting keeps arbitrary casing
// (e.g. "Id" vs "due_date_c") intact and blocks injection through
// projections.
func quoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}

// Query fetches records with projection, filtering, ordering and paging
func (a *Adapter) Query(ctx context.Context, table string, req core.QueryRequest) (core.QueryResponse, error) {
	qTable, err := quoteIdent(table)
	if err != nil {
		return core.QueryResponse{Message: err.Error()}, nil
	}

	columns, err := projectionColumns(req.Fields)
	if err != nil {
		return core.QueryResponse{Message: err.Error()}, nil
	}

	whereSQL, args, err := buildWhere(req.Where)
	if err != nil {
		return core.QueryResponse{Message: err.Error()}, nil
	}

	orderSQL, err := buildOrder(req.OrderBy)
	if err != nil {
		return core.QueryResponse{Message: err.Error()}, nil
	}

	// Count total records before applying limit/offset
	countQuery := "SELECT COUNT(*) FROM " + qTable + whereSQL
	var total int64
	start := time.Now()
	if err := a.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		a.logger.LogError(countQuery, args, time.Since(start), err)
		return core.QueryResponse{Message: err.Error()}, nil
	}
	a.logger.LogQuery(countQuery, args, time.Since(start), 1)

	query := "SELECT " + columns + " FROM " + qTable + whereSQL + orderSQL
	if req.Paging != nil {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", req.Paging.Limit, req.Paging.Offset)
	}

	start = time.Now()
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		a.logger.LogError(query, args, time.Since(start), err)
		return core.QueryResponse{Message: err.Error()}, nil
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		a.logger.LogError(query, args, time.Since(start), err)
		return core.QueryResponse{Message: err.Error()}, nil
	}
	a.logger.LogQuery(query, args, time.Since(start), len(records))

	return core.QueryResponse{Success: true, Data: records, Total: total}, nil
}

// QueryOne fetches a single record by id. A missing row is a success
// envelope with no data, matching the remote contract for lookups.
func (a *Adapter) QueryOne(ctx context.Context, table string, id int, req core.QueryRequest) (core.RecordResponse, error) {
	qTable, err := quoteIdent(table)
	if err != nil {
		return core.RecordResponse{Message: err.Error()}, nil
	}

	columns, err := projectionColumns(req.Fields)
	if err != nil {
		return core.RecordResponse{Message: err.Error()}, nil
	}

	query := "SELECT " + columns + " FROM " + qTable + ` WHERE "Id" = ? LIMIT 1`
	args := []any{id}

	start := time.Now()
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		a.logger.LogError(query, args, time.Since(start), err)
		return core.RecordResponse{Message: err.Error()}, nil
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		a.logger.LogError(query, args, time.Since(start), err)
		return core.RecordResponse{Message: err.Error()}, nil
	}
	a.logger.LogQuery(query, args, time.Since(start), len(records))

	if len(records) == 0 {
		return core.RecordResponse{Success: true}, nil
	}
	return core.RecordResponse{Success: true, Data: records[0]}, nil
}

// Write creates or updates a batch of records. Records carrying an Id are
// updated in place; constraint violations surface as per-record results
// with field-level reasons where the violated column is known.
func (a *Adapter) Write(ctx context.Context, table string, records []core.Record) (core.WriteResponse, error) {
	qTable, err := quoteIdent(table)
	if err != nil {
		return core.WriteResponse{Message: err.Error()}, nil
	}

	results := make([]core.WriteResult, 0, len(records))
	for _, record := range records {
		if id, ok := record.ID(); ok {
			results = append(results, a.updateRecord(ctx, qTable, id, record))
		} else {
			results = append(results, a.insertRecord(ctx, qTable, record))
		}
	}

	return core.WriteResponse{Success: true, Results: results}, nil
}

// Remove deletes records one id at a time so each reports its own result.
// Deleting an id that no longer exists is a per-record failure, not a
// silent success.
func (a *Adapter) Remove(ctx context.Context, table string, ids []int) (core.RemoveResponse, error) {
	qTable, err := quoteIdent(table)
	if err != nil {
		return core.RemoveResponse{Message: err.Error()}, nil
	}

	query := "DELETE FROM " + qTable + ` WHERE "Id" = ?`

	results := make([]core.RemoveResult, 0, len(ids))
	for _, id := range ids {
		args := []any{id}
		start := time.Now()
		res, err := a.db.ExecContext(ctx, query, args...)
		if err != nil {
			a.logger.LogError(query, args, time.Since(start), err)
			results = append(results, core.RemoveResult{Message: err.Error()})
			continue
		}

		affected, _ := res.RowsAffected()
		a.logger.LogExec(query, args, time.Since(start), affected)
		if affected == 0 {
			results = append(results, core.RemoveResult{Message: fmt.Sprintf("record %d not found", id)})
			continue
		}
		results = append(results, core.RemoveResult{Success: true})
	}

	return core.RemoveResponse{Success: true, Results: results}, nil
}

func (a *Adapter) insertRecord(ctx context.Context, qTable string, record core.Record) core.WriteResult {
	names := writeFieldNames(record)
	if len(names) == 0 {
		return core.WriteResult{Message: "no fields to insert"}
	}

	var columns []string
	var placeholders []string
	var values []any
	for _, name := range names {
		qName, err := quoteIdent(name)
		if err != nil {
			return core.WriteResult{Message: err.Error()}
		}
		columns = append(columns, qName)
		placeholders = append(placeholders, "?")
		values = append(values, record[name])
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		qTable,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	start := time.Now()
	res, err := a.db.ExecContext(ctx, query, values...)
	if err != nil {
		a.logger.LogError(query, values, time.Since(start), err)
		return writeResultFromError(err)
	}
	affected, _ := res.RowsAffected()
	a.logger.LogExec(query, values, time.Since(start), affected)

	id, err := res.LastInsertId()
	if err != nil {
		return core.WriteResult{Message: err.Error()}
	}
	return a.readBack(ctx, qTable, int(id))
}

func (a *Adapter) updateRecord(ctx context.Context, qTable string, id int, record core.Record) core.WriteResult {
	var exists bool
	checkQuery := "SELECT EXISTS(SELECT 1 FROM " + qTable + ` WHERE "Id" = ?)`
	if err := a.db.QueryRowContext(ctx, checkQuery, id).Scan(&exists); err != nil {
		return core.WriteResult{Message: err.Error()}
	}
	if !exists {
		return core.WriteResult{Message: fmt.Sprintf("record %d not found", id)}
	}

	names := writeFieldNames(record)
	if len(names) == 0 {
		// Nothing to change; report the current row
		return a.readBack(ctx, qTable, id)
	}

	var setClauses []string
	var values []any
	for _, name := range names {
		qName, err := quoteIdent(name)
		if err != nil {
			return core.WriteResult{Message: err.Error()}
		}
		setClauses = append(setClauses, qName+" = ?")
		values = append(values, record[name])
	}
	values = append(values, id)

	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE "Id" = ?`,
		qTable,
		strings.Join(setClauses, ", "),
	)

	start := time.Now()
	res, err := a.db.ExecContext(ctx, query, values...)
	if err != nil {
		a.logger.LogError(query, values, time.Since(start), err)
		return writeResultFromError(err)
	}
	affected, _ := res.RowsAffected()
	a.logger.LogExec(query, values, time.Since(start), affected)

	return a.readBack(ctx, qTable, id)
}

// readBack returns the stored row as the write result payload
func (a *Adapter) readBack(ctx context.Context, qTable string, id int) core.WriteResult {
	query := "SELECT * FROM " + qTable + ` WHERE "Id" = ? LIMIT 1`

	rows, err := a.db.QueryContext(ctx, query, id)
	if err != nil {
		return core.WriteResult{Message: err.Error()}
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return core.WriteResult{Message: err.Error()}
	}
	if len(records) == 0 {
		return core.WriteResult{Message: fmt.Sprintf("record %d not found", id)}
	}
	return core.WriteResult{Success: true, Data: records[0]}
}

// writeFieldNames returns the record's field names minus the identifier, in
// a deterministic order
func writeFieldNames(record core.Record) []string {
	names := make([]string, 0, len(record))
	for name := range record {
		if name == core.IDFieldName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeResultFromError translates sqlite constraint errors into the
// per-record validation shape the remote backend uses, e.g.
// "NOT NULL constraint failed: activity_c.due_date_c" becomes a field-level
// "required" reason.
func writeResultFromError(err error) core.WriteResult {
	msg := err.Error()

	if col, ok := constraintColumn(msg, "NOT NULL constraint failed: "); ok {
		return core.WriteResult{
			Errors: []core.FieldError{{FieldLabel: col, Message: "required"}},
		}
	}
	if col, ok := constraintColumn(msg, "UNIQUE constraint failed: "); ok {
		return core.WriteResult{
			Errors: []core.FieldError{{FieldLabel: col, Message: "must be unique"}},
		}
	}

	return core.WriteResult{Message: msg}
}

// constraintColumn extracts the column name from a sqlite constraint
// message of the form "<prefix><table>.<column>"
func constraintColumn(msg, prefix string) (string, bool) {
	idx := strings.Index(msg, prefix)
	if idx == -1 {
		return "", false
	}
	qualified := strings.TrimSpace(msg[idx+len(prefix):])
	dot := strings.LastIndex(qualified, ".")
	if dot == -1 || dot == len(qualified)-1 {
		return "", false
	}
	return qualified[dot+1:], true
}

func projectionColumns(fields []string) (string, error) {
	if len(fields) == 0 {
		return "*", nil
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		qName, err := quoteIdent(f)
		if err != nil {
			return "", err
		}
		quoted = append(quoted, qName)
	}
	return strings.Join(quoted, ", "), nil
}

func buildWhere(filters []core.Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	var conditions []string
	var args []any
	for _, filter := range filters {
		qName, err := quoteIdent(filter.Field)
		if err != nil {
			return "", nil, err
		}
		switch filter.Operator {
		case core.OpEqualTo:
			conditions = append(conditions, qName+" = ?")
			args = append(args, filter.Value)
		case core.OpContains:
			conditions = append(conditions, qName+" LIKE ?")
			args = append(args, "%"+fmt.Sprintf("%v", filter.Value)+"%")
		default:
			return "", nil, fmt.Errorf("unsupported filter operator %q", filter.Operator)
		}
	}

	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func buildOrder(sorts []core.SortField) (string, error) {
	if len(sorts) == 0 {
		return "", nil
	}

	var clauses []string
	for _, s := range sorts {
		qName, err := quoteIdent(s.Field)
		if err != nil {
			return "", err
		}
		direction := "ASC"
		if s.Direction == core.SortDesc {
			direction = "DESC"
		}
		clauses = append(clauses, qName+" "+direction)
	}

	return " ORDER BY " + strings.Join(clauses, ", "), nil
}

// scanRecords converts sql rows into field-name keyed records. Byte slices
// become strings so records round-trip like decoded JSON.
func scanRecords(rows *sql.Rows) ([]core.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []core.Record
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		record := make(core.Record, len(columns))
		for i, column := range columns {
			switch v := values[i].(type) {
			case []byte:
				record[column] = string(v)
			default:
				record[column] = v
			}
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
