package apper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apper-canvas/studyflow-beta-ether/core"
)

// capture records what the test server saw for a single call
type capture struct {
	method  string
	path    string
	query   string
	headers http.Header
	body    []byte
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *capture) {
	t.Helper()
	cap := &capture{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.method = r.Method
		cap.path = r.URL.Path
		cap.query = r.URL.RawQuery
		cap.headers = r.Header.Clone()

		body, _ := io.ReadAll(r.Body)
		cap.body = body

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	return server, cap
}

func TestQueryRequestShape(t *testing.T) {
	server, cap := newTestServer(t, http.StatusOK,
		`{"success":true,"data":[{"Id":1,"Name":"Quiz"}],"total":1}`)
	adapter := New(server.URL, "proj-123", "secret-key")

	req := core.QueryRequest{
		Fields:  []string{"Id", "Name"},
		Where:   []core.Filter{{Field: "Name", Operator: core.OpContains, Value: "Qui"}},
		OrderBy: []core.SortField{{Field: "Name", Direction: core.SortAsc}},
		Paging:  &core.Pagination{Limit: 20, Offset: 0},
	}
	resp, err := adapter.Query(context.Background(), "activity_c", req)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}

	if cap.method != http.MethodPost {
		t.Errorf("Expected POST, got %s", cap.method)
	}
	if cap.path != "/api/tables/activity_c/query" {
		t.Errorf("Unexpected path %q", cap.path)
	}

	// Request envelope carries the wire field names
	var sent map[string]json.RawMessage
	if err := json.Unmarshal(cap.body, &sent); err != nil {
		t.Fatalf("Request body is not JSON: %v", err)
	}
	for _, key := range []string{"fields", "where", "orderBy", "pagingInfo"} {
		if _, exists := sent[key]; !exists {
			t.Errorf("Expected request key %q in body %s", key, cap.body)
		}
	}

	if !resp.Success {
		t.Error("Expected decoded success envelope")
	}
	if len(resp.Data) != 1 || resp.Total != 1 {
		t.Errorf("Unexpected decoded payload: %+v", resp)
	}
}

func TestRequestHeaders(t *testing.T) {
	server, cap := newTestServer(t, http.StatusOK, `{"success":true}`)
	adapter := New(server.URL, "proj-123", "secret-key")

	if _, err := adapter.Query(context.Background(), "activity_c", core.QueryRequest{Fields: []string{"Id"}}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}

	if got := cap.headers.Get("X-Apper-Project-Id"); got != "proj-123" {
		t.Errorf("Expected project header 'proj-123', got %q", got)
	}
	if got := cap.headers.Get("Authorization"); got != "Bearer secret-key" {
		t.Errorf("Expected bearer auth, got %q", got)
	}
	if cap.headers.Get("X-Request-Id") == "" {
		t.Error("Expected a request id header on every call")
	}
	if got := cap.headers.Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected JSON content type, got %q", got)
	}
}

func TestQueryOnePathAndProjection(t *testing.T) {
	server, cap := newTestServer(t, http.StatusOK,
		`{"success":true,"data":{"Id":7,"Name":"Lab"}}`)
	adapter := New(server.URL, "proj-123", "secret-key")

	resp, err := adapter.QueryOne(context.Background(), "activity_c", 7, core.QueryRequest{
		Fields: []string{"Id", "Name"},
	})
	if err != nil {
		t.Fatalf("QueryOne returned error: %v", err)
	}

	if cap.method != http.MethodGet {
		t.Errorf("Expected GET, got %s", cap.method)
	}
	if cap.path != "/api/tables/activity_c/records/7" {
		t.Errorf("Unexpected path %q", cap.path)
	}
	if cap.query != "fields=Id%2CName" {
		t.Errorf("Expected comma-joined projection, got %q", cap.query)
	}

	if !resp.Success || resp.Data["Name"] != "Lab" {
		t.Errorf("Unexpected decoded response: %+v", resp)
	}
}

func TestQueryOneMissingRecord(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"success":true}`)
	adapter := New(server.URL, "proj-123", "secret-key")

	resp, err := adapter.QueryOne(context.Background(), "activity_c", 999, core.QueryRequest{
		Fields: []string{"Id"},
	})
	if err != nil {
		t.Fatalf("QueryOne returned error: %v", err)
	}
	// Success with no data means the record does not exist
	if !resp.Success || resp.Data != nil {
		t.Errorf("Expected empty success envelope, got %+v", resp)
	}
}

func TestWriteRequestShape(t *testing.T) {
	server, cap := newTestServer(t, http.StatusOK,
		`{"success":true,"results":[{"success":true,"data":{"Id":3,"Name":"Quiz"}}]}`)
	adapter := New(server.URL, "proj-123", "secret-key")

	resp, err := adapter.Write(context.Background(), "activity_c", []core.Record{
		{"Name": "Quiz", "due_date_c": "2026-09-10"},
	})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	if cap.method != http.MethodPost {
		t.Errorf("Expected POST, got %s", cap.method)
	}
	if cap.path != "/api/tables/activity_c/records" {
		t.Errorf("Unexpected path %q", cap.path)
	}

	var sent struct {
		Records []core.Record `json:"records"`
	}
	if err := json.Unmarshal(cap.body, &sent); err != nil {
		t.Fatalf("Request body is not JSON: %v", err)
	}
	if len(sent.Records) != 1 || sent.Records[0]["Name"] != "Quiz" {
		t.Errorf("Unexpected wire records: %+v", sent.Records)
	}

	if !resp.Success || len(resp.Results) != 1 || !resp.Results[0].Success {
		t.Errorf("Unexpected decoded response: %+v", resp)
	}
}

func TestWriteDecodesFieldErrors(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK,
		`{"success":true,"results":[{"success":false,"message":"record invalid","errors":[{"fieldLabel":"Due Date","message":"required"}]}]}`)
	adapter := New(server.URL, "proj-123", "secret-key")

	resp, err := adapter.Write(context.Background(), "activity_c", []core.Record{{"Name": "x"}})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	result := resp.Results[0]
	if result.Success {
		t.Fatal("Expected per-record failure")
	}
	if len(result.Errors) != 1 || result.Errors[0].FieldLabel != "Due Date" {
		t.Errorf("Unexpected field errors: %+v", result.Errors)
	}
}

func TestRemoveRequestShape(t *testing.T) {
	server, cap := newTestServer(t, http.StatusOK,
		`{"success":true,"results":[{"success":true},{"success":false,"message":"record 4 not found"}]}`)
	adapter := New(server.URL, "proj-123", "secret-key")

	resp, err := adapter.Remove(context.Background(), "activity_c", []int{3, 4})
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	if cap.method != http.MethodDelete {
		t.Errorf("Expected DELETE, got %s", cap.method)
	}
	if cap.path != "/api/tables/activity_c/records" {
		t.Errorf("Unexpected path %q", cap.path)
	}

	var sent struct {
		RecordIDs []int `json:"recordIds"`
	}
	if err := json.Unmarshal(cap.body, &sent); err != nil {
		t.Fatalf("Request body is not JSON: %v", err)
	}
	if len(sent.RecordIDs) != 2 || sent.RecordIDs[0] != 3 {
		t.Errorf("Unexpected wire ids: %v", sent.RecordIDs)
	}

	if !resp.Results[0].Success || resp.Results[1].Success {
		t.Errorf("Unexpected decoded results: %+v", resp.Results)
	}
}

func TestRemoteFailureEnvelope(t *testing.T) {
	// A well-formed failure envelope is not a Go error
	server, _ := newTestServer(t, http.StatusOK, `{"success":false,"message":"table unavailable"}`)
	adapter := New(server.URL, "proj-123", "secret-key")

	resp, err := adapter.Query(context.Background(), "activity_c", core.QueryRequest{Fields: []string{"Id"}})
	if err != nil {
		t.Fatalf("Expected envelope failure, got Go error: %v", err)
	}
	if resp.Success {
		t.Error("Expected failure envelope")
	}
	if resp.Message != "table unavailable" {
		t.Errorf("Expected remote message, got %q", resp.Message)
	}
}

func TestUndecodableErrorStatus(t *testing.T) {
	// A 5xx with a non-JSON body is a transport error
	server, _ := newTestServer(t, http.StatusBadGateway, `upstream exploded`)
	adapter := New(server.URL, "proj-123", "secret-key")

	_, err := adapter.Query(context.Background(), "activity_c", core.QueryRequest{Fields: []string{"Id"}})
	if err == nil {
		t.Fatal("Expected error for undecodable error response")
	}
	if err.Error() != "remote returned status 502" {
		t.Errorf("Unexpected error message %q", err.Error())
	}
}

func TestNoAuthHeaderWithoutKey(t *testing.T) {
	server, cap := newTestServer(t, http.StatusOK, `{"success":true}`)
	adapter := New(server.URL, "proj-123", "")

	if _, err := adapter.Query(context.Background(), "activity_c", core.QueryRequest{Fields: []string{"Id"}}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if got := cap.headers.Get("Authorization"); got != "" {
		t.Errorf("Expected no auth header without an api key, got %q", got)
	}
}
