package core

import "fmt"

// OutcomeStatus tags the result variant of a client operation
type OutcomeStatus string

const (
	StatusSuccess        OutcomeStatus = "success"
	StatusPartialFailure OutcomeStatus = "partial_failure"
	StatusFatalFailure   OutcomeStatus = "fatal_failure"
	StatusNotFound       OutcomeStatus = "not_found"
)

// FailureReason is one human-readable reason a record was rejected.
// FieldLabel is empty for record-level (non field-specific) messages.
type FailureReason struct {
	FieldLabel string `json:"fieldLabel,omitempty"`
	Message    string `json:"message"`
}

// String renders the reason as shown to users, e.g. "due_date_c: required"
func (fr FailureReason) String() string {
	if fr.FieldLabel == "" {
		return fr.Message
	}
	return fr.FieldLabel + ": " + fr.Message
}

// FailedRecord pairs a rejected record with the reasons it was rejected.
// Every failed record carries at least one reason.
type FailedRecord struct {
	Record  Record          `json:"record"`
	Reasons []FailureReason `json:"reasons"`
}

// Outcome is the uniform result wrapper returned by every client call.
// It is the exclusive channel for reporting results; callers never see
// transport-level response shapes or errors.
type Outcome struct {
	Status OutcomeStatus `json:"status"`

	// Record is set for single-record operations (get, create, update)
	Record Record `json:"record,omitempty"`

	// Records is set for list operations; empty slice, never nil, on success
	Records    []Record `json:"records,omitempty"`
	TotalCount int64    `json:"total_count,omitempty"`
	HasMore    bool     `json:"has_more,omitempty"`

	// Succeeded and Failed are set on partial failures of batch writes
	Succeeded []Record       `json:"succeeded,omitempty"`
	Failed    []FailedRecord `json:"failed,omitempty"`

	// Message is set on fatal failures
	Message string `json:"message,omitempty"`
}

// IsSuccess reports whether the operation fully succeeded
func (o Outcome) IsSuccess() bool { return o.Status == StatusSuccess }

// IsNotFound reports whether a single-record lookup found no row.
// This is a normal, non-exceptional outcome.
func (o Outcome) IsNotFound() bool { return o.Status == StatusNotFound }

// IsPartialFailure reports whether some records of a batch write failed
func (o Outcome) IsPartialFailure() bool { return o.Status == StatusPartialFailure }

// IsFatalFailure reports whether the call failed as a whole
func (o Outcome) IsFatalFailure() bool { return o.Status == StatusFatalFailure }

// SuccessRecord wraps a single record in a success outcome
func SuccessRecord(rec Record) Outcome {
	return Outcome{Status: StatusSuccess, Record: rec}
}

// SuccessRecords wraps a record sequence in a success outcome. A nil slice is
// normalized to an empty one so list callers never see nil data.
func SuccessRecords(records []Record, total int64, hasMore bool) Outcome {
	if records == nil {
		records = []Record{}
	}
	return Outcome{Status: StatusSuccess, Records: records, TotalCount: total, HasMore: hasMore}
}

// SuccessEmpty is a success outcome with no payload, used by delete
func SuccessEmpty() Outcome {
	return Outcome{Status: StatusSuccess}
}

// NotFound is the outcome of a well-formed lookup that matched no row
func NotFound() Outcome {
	return Outcome{Status: StatusNotFound}
}

// Fatal wraps a terminal failure message in an outcome
func Fatal(message string) Outcome {
	return Outcome{Status: StatusFatalFailure, Message: message}
}

// Fatalf is Fatal with formatting
func Fatalf(format string, args ...any) Outcome {
	return Fatal(fmt.Sprintf(format, args...))
}

// Partial wraps the succeeded/failed partition of a batch write
func Partial(succeeded []Record, failed []FailedRecord) Outcome {
	return Outcome{Status: StatusPartialFailure, Succeeded: succeeded, Failed: failed}
}
