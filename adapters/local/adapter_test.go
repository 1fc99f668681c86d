package local

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/apper-canvas/studyflow-beta-ether/core"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `CREATE TABLE activity_c (
		"Id" INTEGER PRIMARY KEY AUTOINCREMENT,
		"Name" TEXT NOT NULL,
		"subject_c" TEXT,
		"due_date_c" TEXT NOT NULL,
		"points_c" REAL,
		"CreatedOn" TEXT DEFAULT (datetime('now'))
	);
	CREATE TABLE teacher_c (
		"Id" INTEGER PRIMARY KEY AUTOINCREMENT,
		"Name" TEXT NOT NULL,
		"email_c" TEXT UNIQUE
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db
}

func seedActivities(t *testing.T, db *sql.DB, count int) {
	t.Helper()
	for i := 1; i <= count; i++ {
		_, err := db.Exec(
			`INSERT INTO activity_c ("Name", "subject_c", "due_date_c", "points_c") VALUES (?, ?, ?, ?)`,
			fmt.Sprintf("Activity %03d", i), "Math", "2026-09-01", float64(i),
		)
		if err != nil {
			t.Fatalf("Failed to seed row %d: %v", i, err)
		}
	}
}

func TestQueryProjectionAndTotal(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, 3)
	adapter := New(db)

	resp, err := adapter.Query(context.Background(), "activity_c", core.QueryRequest{
		Fields: []string{"Id", "Name"},
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success envelope, got message %q", resp.Message)
	}
	if resp.Total != 3 {
		t.Errorf("Expected total 3, got %d", resp.Total)
	}
	if len(resp.Data) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(resp.Data))
	}

	// Only projected fields come back
	record := resp.Data[0]
	if _, exists := record["Name"]; !exists {
		t.Error("Expected projected field 'Name' in record")
	}
	if _, exists := record["subject_c"]; exists {
		t.Error("Unprojected field 'subject_c' should be absent")
	}
}

func TestQueryPaging(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, 250)
	adapter := New(db)

	resp, err := adapter.Query(context.Background(), "activity_c", core.QueryRequest{
		Fields:  []string{"Id", "Name"},
		OrderBy: []core.SortField{{Field: "Id", Direction: core.SortAsc}},
		Paging:  &core.Pagination{Limit: 100, Offset: 200},
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success envelope, got message %q", resp.Message)
	}

	// Total reflects the whole result set, not the page
	if resp.Total != 250 {
		t.Errorf("Expected total 250, got %d", resp.Total)
	}
	if len(resp.Data) != 50 {
		t.Errorf("Expected 50 records on the last page, got %d", len(resp.Data))
	}
	if resp.Data[0]["Name"] != "Activity 201" {
		t.Errorf("Expected page to start at 'Activity 201', got %v", resp.Data[0]["Name"])
	}
}

func TestQueryFilters(t *testing.T) {
	db := setupTestDB(t)
	adapter := New(db)

	rows := []struct {
		name, subject string
	}{
		{"Algebra quiz", "Math"},
		{"Geometry homework", "Math"},
		{"Essay draft", "Language"},
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO activity_c ("Name", "subject_c", "due_date_c") VALUES (?, ?, ?)`,
			r.name, r.subject, "2026-09-01",
		); err != nil {
			t.Fatalf("Failed to seed: %v", err)
		}
	}

	// EqualTo and Contains combine with AND
	resp, err := adapter.Query(context.Background(), "activity_c", core.QueryRequest{
		Fields: []string{"Id", "Name"},
		Where: []core.Filter{
			{Field: "subject_c", Operator: core.OpEqualTo, Value: "Math"},
			{Field: "Name", Operator: core.OpContains, Value: "quiz"},
		},
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success envelope, got message %q", resp.Message)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("Expected exactly 1 match, got total=%d len=%d", resp.Total, len(resp.Data))
	}
	if resp.Data[0]["Name"] != "Algebra quiz" {
		t.Errorf("Expected 'Algebra quiz', got %v", resp.Data[0]["Name"])
	}
}

func TestQueryOrdering(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, 3)
	adapter := New(db)

	resp, err := adapter.Query(context.Background(), "activity_c", core.QueryRequest{
		Fields:  []string{"Id", "points_c"},
		OrderBy: []core.SortField{{Field: "points_c", Direction: core.SortDesc}},
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success envelope, got message %q", resp.Message)
	}
	if resp.Data[0]["points_c"] != float64(3) {
		t.Errorf("Expected descending order, first points_c = %v", resp.Data[0]["points_c"])
	}
}

func TestQueryInvalidIdentifier(t *testing.T) {
	db := setupTestDB(t)
	adapter := New(db)

	// Injection through projection must come back as a failure envelope,
	// not a Go error
	resp, err := adapter.Query(context.Background(), "activity_c", core.QueryRequest{
		Fields: []string{`Name"; DROP TABLE activity_c; --`},
	})
	if err != nil {
		t.Fatalf("Expected envelope failure, got Go error: %v", err)
	}
	if resp.Success {
		t.Error("Expected failure envelope for invalid identifier")
	}
	if resp.Message == "" {
		t.Error("Expected a failure message")
	}
}

func TestQueryOneFound(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, 1)
	adapter := New(db)

	resp, err := adapter.QueryOne(context.Background(), "activity_c", 1, core.QueryRequest{
		Fields: []string{"Id", "Name"},
	})
	if err != nil {
		t.Fatalf("QueryOne returned error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success envelope, got message %q", resp.Message)
	}
	if resp.Data == nil {
		t.Fatal("Expected record data")
	}
	if resp.Data["Name"] != "Activity 001" {
		t.Errorf("Unexpected record: %v", resp.Data)
	}
}

func TestQueryOneMissing(t *testing.T) {
	db := setupTestDB(t)
	adapter := New(db)

	resp, err := adapter.QueryOne(context.Background(), "activity_c", 42, core.QueryRequest{
		Fields: []string{"Id"},
	})
	if err != nil {
		t.Fatalf("QueryOne returned error: %v", err)
	}

	// A missing row is a success envelope with no data
	if !resp.Success {
		t.Errorf("Expected success envelope for missing row, got message %q", resp.Message)
	}
	if resp.Data != nil {
		t.Errorf("Expected nil data for missing row, got %v", resp.Data)
	}
}

func TestWriteInsert(t *testing.T) {
	db := setupTestDB(t)
	adapter := New(db)

	resp, err := adapter.Write(context.Background(), "activity_c", []core.Record{
		{"Name": "Lab report", "due_date_c": "2026-09-15", "points_c": 10.0},
	})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success envelope, got message %q", resp.Message)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(resp.Results))
	}

	result := resp.Results[0]
	if !result.Success {
		t.Fatalf("Expected successful insert, got %q %v", result.Message, result.Errors)
	}
	// The stored row comes back, identifier included
	if id, ok := result.Data.ID(); !ok || id != 1 {
		t.Errorf("Expected read-back record with Id 1, got %v", result.Data)
	}
	if result.Data["Name"] != "Lab report" {
		t.Errorf("Unexpected read-back data: %v", result.Data)
	}
}

func TestWriteUpdate(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, 1)
	adapter := New(db)

	resp, err := adapter.Write(context.Background(), "activity_c", []core.Record{
		{"Id": 1, "Name": "Renamed"},
	})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	result := resp.Results[0]
	if !result.Success {
		t.Fatalf("Expected successful update, got %q", result.Message)
	}
	if result.Data["Name"] != "Renamed" {
		t.Errorf("Expected updated name, got %v", result.Data["Name"])
	}
	// Untouched fields survive
	if result.Data["subject_c"] != "Math" {
		t.Errorf("Expected untouched subject_c, got %v", result.Data["subject_c"])
	}
}

func TestWriteUpdateMissingRecord(t *testing.T) {
	db := setupTestDB(t)
	adapter := New(db)

	resp, err := adapter.Write(context.Background(), "activity_c", []core.Record{
		{"Id": 99, "Name": "Ghost"},
	})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	// Batch envelope succeeds; the individual record fails
	if !resp.Success {
		t.Fatal("Expected success envelope with per-record failure")
	}
	result := resp.Results[0]
	if result.Success {
		t.Error("Expected per-record failure for missing id")
	}
	if result.Message != "record 99 not found" {
		t.Errorf("Unexpected message %q", result.Message)
	}
}

func TestWriteNotNullViolation(t *testing.T) {
	db := setupTestDB(t)
	adapter := New(db)

	resp, err := adapter.Write(context.Background(), "activity_c", []core.Record{
		{"Name": "No due date"},
	})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	result := resp.Results[0]
	if result.Success {
		t.Fatal("Expected per-record failure for NOT NULL violation")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected 1 field error, got %d (message %q)", len(result.Errors), result.Message)
	}
	if result.Errors[0].FieldLabel != "due_date_c" || result.Errors[0].Message != "required" {
		t.Errorf("Expected 'due_date_c: required', got %+v", result.Errors[0])
	}
}

func TestWriteUniqueViolation(t *testing.T) {
	db := setupTestDB(t)
	adapter := New(db)

	first, err := adapter.Write(context.Background(), "teacher_c", []core.Record{
		{"Name": "Ada", "email_c": "ada@studyflow.local"},
	})
	if err != nil || !first.Results[0].Success {
		t.Fatalf("Seed insert failed: %v %+v", err, first.Results[0])
	}

	resp, err := adapter.Write(context.Background(), "teacher_c", []core.Record{
		{"Name": "Imposter", "email_c": "ada@studyflow.local"},
	})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	result := resp.Results[0]
	if result.Success {
		t.Fatal("Expected per-record failure for UNIQUE violation")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected 1 field error, got %d (message %q)", len(result.Errors), result.Message)
	}
	if result.Errors[0].FieldLabel != "email_c" || result.Errors[0].Message != "must be unique" {
		t.Errorf("Expected 'email_c: must be unique', got %+v", result.Errors[0])
	}
}

func TestWriteMixedBatch(t *testing.T) {
	db := setupTestDB(t)
	adapter := New(db)

	resp, err := adapter.Write(context.Background(), "activity_c", []core.Record{
		{"Name": "Good", "due_date_c": "2026-09-01"},
		{"Name": "Bad"}, // missing NOT NULL due_date_c
	})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(resp.Results))
	}
	if !resp.Results[0].Success {
		t.Error("Expected first record to succeed")
	}
	if resp.Results[1].Success {
		t.Error("Expected second record to fail")
	}
}

func TestRemove(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, 2)
	adapter := New(db)

	resp, err := adapter.Remove(context.Background(), "activity_c", []int{1, 2})
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Expected success envelope, got message %q", resp.Message)
	}
	for i, result := range resp.Results {
		if !result.Success {
			t.Errorf("Result %d: expected success, got %q", i, result.Message)
		}
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM activity_c`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected empty table after delete, got %d rows", count)
	}
}

func TestRemoveAlreadyDeleted(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, 1)
	adapter := New(db)

	// Deleting an id twice: the second attempt is a per-record failure
	if _, err := adapter.Remove(context.Background(), "activity_c", []int{1}); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	resp, err := adapter.Remove(context.Background(), "activity_c", []int{1})
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	result := resp.Results[0]
	if result.Success {
		t.Error("Expected per-record failure for already-deleted id")
	}
	if result.Message != "record 1 not found" {
		t.Errorf("Unexpected message %q", result.Message)
	}
}

func TestRemoveMixedBatch(t *testing.T) {
	db := setupTestDB(t)
	seedActivities(t, db, 1)
	adapter := New(db)

	resp, err := adapter.Remove(context.Background(), "activity_c", []int{1, 7})
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if !resp.Results[0].Success {
		t.Errorf("Expected id 1 to delete, got %q", resp.Results[0].Message)
	}
	if resp.Results[1].Success {
		t.Error("Expected id 7 to fail")
	}
}

func TestConstraintColumn(t *testing.T) {
	tests := []struct {
		msg    string
		prefix string
		want   string
		ok     bool
	}{
		{"NOT NULL constraint failed: activity_c.due_date_c", "NOT NULL constraint failed: ", "due_date_c", true},
		{"UNIQUE constraint failed: teacher_c.email_c", "UNIQUE constraint failed: ", "email_c", true},
		{"something else entirely", "NOT NULL constraint failed: ", "", false},
		{"NOT NULL constraint failed: malformed", "NOT NULL constraint failed: ", "", false},
	}

	for _, tt := range tests {
		got, ok := constraintColumn(tt.msg, tt.prefix)
		if ok != tt.ok || got != tt.want {
			t.Errorf("constraintColumn(%q) = (%q, %v), want (%q, %v)", tt.msg, got, ok, tt.want, tt.ok)
		}
	}
}
