// Package apper implements core.Transport against the hosted Apper data
// API. Every table lives under /api/tables/{name}; reads and writes use
// JSON envelopes with an explicit success flag, so remote-reported failures
// come back inside the envelope rather than as Go errors.
package apper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/apper-canvas/studyflow-beta-ether/core"

	"github.com/google/uuid"
)

// Adapter implements the core.Transport interface over HTTP
type Adapter struct {
	baseURL   string
	projectID string
	apiKey    string
	client    *http.Client
	logger    *APILogger
}

// New creates a new Apper transport adapter
func New(baseURL, projectID, apiKey string) *Adapter {
	return NewWithDebug(baseURL, projectID, apiKey, false)
}

// NewWithDebug creates a new Apper transport adapter with debug logging
func NewWithDebug(baseURL, projectID, apiKey string, debugEnabled bool) *Adapter {
	return &Adapter{
		baseURL:   strings.TrimRight(baseURL, "/"),
		projectID: projectID,
		apiKey:    apiKey,
		client:    &http.Client{},
		logger:    NewAPILogger(debugEnabled),
	}
}

// SetDebugEnabled enables or disables API debug logging
func (a *Adapter) SetDebugEnabled(enabled bool) {
	a.logger.SetEnabled(enabled)
}

// Query fetches records from a table
func (a *Adapter) Query(ctx context.Context, table string, req core.QueryRequest) (core.QueryResponse, error) {
	var resp core.QueryResponse
	err := a.do(ctx, http.MethodPost, a.tableURL(table, "query"), req, &resp)
	return resp, err
}

// QueryOne fetches a single record by id
func (a *Adapter) QueryOne(ctx context.Context, table string, id int, req core.QueryRequest) (core.RecordResponse, error) {
	u := a.tableURL(table, "records", strconv.Itoa(id))
	if len(req.Fields) > 0 {
		u += "?fields=" + url.QueryEscape(strings.Join(req.Fields, ","))
	}

	var resp core.RecordResponse
	err := a.do(ctx, http.MethodGet, u, nil, &resp)
	return resp, err
}

// Write creates or updates a batch of records. Records carrying an Id are
// updated; the rest are created.
func (a *Adapter) Write(ctx context.Context, table string, records []core.Record) (core.WriteResponse, error) {
	body := struct {
		Records []core.Record `json:"records"`
	}{Records: records}

	var resp core.WriteResponse
	err := a.do(ctx, http.MethodPost, a.tableURL(table, "records"), body, &resp)
	return resp, err
}

// Remove deletes a batch of records by id
func (a *Adapter) Remove(ctx context.Context, table string, ids []int) (core.RemoveResponse, error) {
	body := struct {
		RecordIDs []int `json:"recordIds"`
	}{RecordIDs: ids}

	var resp core.RemoveResponse
	err := a.do(ctx, http.MethodDelete, a.tableURL(table, "records"), body, &resp)
	return resp, err
}

// tableURL builds the endpoint URL for a table, e.g.
// https://host/api/tables/activity_c/records/7
func (a *Adapter) tableURL(table string, parts ...string) string {
	segments := append([]string{"api", "tables", table}, parts...)
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return a.baseURL + "/" + strings.Join(segments, "/")
}

// do executes one HTTP call and decodes the JSON envelope into out. A
// returned error means the call itself could not complete (network failure,
// undecodable body); remote-reported failures arrive decoded in out with
// the envelope's success flag unset.
func (a *Adapter) do(ctx context.Context, method, u string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Apper-Project-Id", a.projectID)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	start := time.Now()
	res, err := a.client.Do(req)
	if err != nil {
		a.logger.LogError(method, u, time.Since(start), err)
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	duration := time.Since(start)
	if err != nil {
		a.logger.LogError(method, u, duration, err)
		return fmt.Errorf("read response: %w", err)
	}
	a.logger.LogRequest(method, u, duration, res.StatusCode)

	if err := json.Unmarshal(data, out); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("remote returned status %d", res.StatusCode)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
