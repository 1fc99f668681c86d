package core

import (
	"context"
	"fmt"
)

// Client provides uniform, resource-agnostic access to a remote table's CRUD
// surface. It translates transport envelopes into the Outcome model and
// shields callers from transport error shapes: every method resolves its
// failures locally and returns an Outcome, never a Go error.
//
// A Client holds no mutable state beyond its fixed resource descriptor, so
// independent calls may be in flight concurrently. Calls are never retried
// and overlapping writes to the same record are not serialized; that is a
// caller responsibility.
type Client struct {
	resource  *Resource
	transport Transport
	notifier  Notifier
}

// NewClient creates a client bound to one resource. A nil notifier disables
// user notifications.
func NewClient(resource *Resource, transport Transport, notifier Notifier) *Client {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Client{
		resource:  resource,
		transport: transport,
		notifier:  notifier,
	}
}

// Resource returns the descriptor this client is bound to
func (c *Client) Resource() *Resource {
	return c.resource
}

// List fetches records with the given field projection and read options.
// A nil query leaves ordering and paging to the remote defaults. On success
// the outcome's record sequence is never nil.
func (c *Client) List(ctx context.Context, fields []string, query *Query) Outcome {
	if len(fields) == 0 {
		return c.malformed("field projection must not be empty")
	}

	req := QueryRequest{Fields: fields}
	if query != nil {
		if query.Pagination.Limit <= 0 {
			return c.malformed("page limit must be positive")
		}
		req.Where = query.Filters
		req.OrderBy = query.Sort
		paging := query.Pagination
		req.Paging = &paging
	}

	resp, err := c.transport.Query(ctx, c.resource.Name, req)
	if err != nil {
		return c.fatal(err.Error())
	}
	if !resp.Success {
		return c.fatal(resp.Message)
	}

	hasMore := false
	if query != nil && resp.Total > 0 {
		hasMore = int64(query.Pagination.Offset)+int64(len(resp.Data)) < resp.Total
	}
	return SuccessRecords(resp.Data, resp.Total, hasMore)
}

// Get fetches a single record by identifier. A success envelope with no
// matching row yields a NotFound outcome, which is normal and emits no
// notification.
func (c *Client) Get(ctx context.Context, id int, fields []string) Outcome {
	if id <= 0 {
		return c.malformed(fmt.Sprintf("invalid record id %d", id))
	}
	if len(fields) == 0 {
		return c.malformed("field projection must not be empty")
	}

	resp, err := c.transport.QueryOne(ctx, c.resource.Name, id, QueryRequest{Fields: fields})
	if err != nil {
		return c.fatal(err.Error())
	}
	if !resp.Success {
		return c.fatal(resp.Message)
	}
	if len(resp.Data) == 0 {
		return NotFound()
	}
	return SuccessRecord(resp.Data)
}

// Create submits one new record. The payload is reduced to the resource's
// writeable-field whitelist before sending; unknown fields are silently
// dropped, not errors.
func (c *Client) Create(ctx context.Context, payload Record) Outcome {
	record := c.resource.FilterWriteable(payload)
	return c.submit(ctx, record, fmt.Sprintf("%s created", c.resource.DisplayName))
}

// Update submits changed fields for an existing record. Filtering follows
// the create rules, with the identifier merged back in to address the
// target record.
func (c *Client) Update(ctx context.Context, id int, payload Record) Outcome {
	if id <= 0 {
		return c.malformed(fmt.Sprintf("invalid record id %d", id))
	}
	record := c.resource.FilterWriteable(payload)
	record[c.resource.IDField] = id
	return c.submit(ctx, record, fmt.Sprintf("%s updated", c.resource.DisplayName))
}

// Delete removes one or more records in a single batch call. All-succeeded
// returns a success outcome; any per-record failure surfaces as a partial
// failure with one notification per failure message.
func (c *Client) Delete(ctx context.Context, ids []int) Outcome {
	if len(ids) == 0 {
		return c.malformed("no record ids given")
	}
	for _, id := range ids {
		if id <= 0 {
			return c.malformed(fmt.Sprintf("invalid record id %d", id))
		}
	}

	resp, err := c.transport.Remove(ctx, c.resource.Name, ids)
	if err != nil {
		return c.fatal(err.Error())
	}
	if !resp.Success {
		return c.fatal(resp.Message)
	}

	var succeeded []Record
	var failed []FailedRecord
	for i, result := range resp.Results {
		record := Record{}
		if i < len(ids) {
			record[c.resource.IDField] = ids[i]
		}
		if result.Success {
			succeeded = append(succeeded, record)
			continue
		}
		reason := FailureReason{Message: result.Message}
		if reason.Message == "" {
			reason.Message = "record could not be deleted"
		}
		c.notifier.Error(reason.String())
		failed = append(failed, FailedRecord{Record: record, Reasons: []FailureReason{reason}})
	}

	if len(failed) > 0 {
		return Partial(succeeded, failed)
	}
	c.notifier.Success(fmt.Sprintf("%d %s deleted", len(ids), pluralizeCount(c.resource, len(ids))))
	return SuccessEmpty()
}

// submit sends a single-record batch write and partitions the per-record
// results per the uniform response-handling algorithm shared by create and
// update.
func (c *Client) submit(ctx context.Context, record Record, successMsg string) Outcome {
	resp, err := c.transport.Write(ctx, c.resource.Name, []Record{record})
	if err != nil {
		return c.fatal(err.Error())
	}
	if !resp.Success {
		return c.fatal(resp.Message)
	}

	var succeeded []Record
	var failed []FailedRecord
	for _, result := range resp.Results {
		if result.Success {
			data := result.Data
			if data == nil {
				data = record
			}
			succeeded = append(succeeded, data)
			continue
		}

		var reasons []FailureReason
		for _, fieldErr := range result.Errors {
			reasons = append(reasons, FailureReason{
				FieldLabel: fieldErr.FieldLabel,
				Message:    fieldErr.Message,
			})
		}
		if result.Message != "" {
			reasons = append(reasons, FailureReason{Message: result.Message})
		}
		if len(reasons) == 0 {
			// Every failed record surfaces at least one human-readable reason
			reasons = append(reasons, FailureReason{Message: "record was rejected"})
		}
		for _, reason := range reasons {
			c.notifier.Error(reason.String())
		}
		failed = append(failed, FailedRecord{Record: result.Data, Reasons: reasons})
	}

	if len(failed) > 0 {
		return Partial(succeeded, failed)
	}
	if len(succeeded) == 0 {
		return c.fatal("no result")
	}
	c.notifier.Success(successMsg)
	return SuccessRecord(succeeded[0])
}

// fatal reports a terminal failure once: as a notification side effect and
// as the returned outcome
func (c *Client) fatal(message string) Outcome {
	if message == "" {
		message = "request failed"
	}
	c.notifier.Error(message)
	return Fatal(message)
}

// malformed rejects invalid caller input before any network call is made
func (c *Client) malformed(message string) Outcome {
	return c.fatal(message)
}

func pluralizeCount(r *Resource, n int) string {
	if n == 1 {
		return r.DisplayName
	}
	return r.PluralName
}
