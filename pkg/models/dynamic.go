package models

import "time"

// TraceEventKind mirrors the interpreter trace event taxonomy.
type TraceEventKind string

const (
	EventCall      TraceEventKind = "call"
	EventLine      TraceEventKind = "line"
	EventReturn    TraceEventKind = "return"
	EventException TraceEventKind = "exception"
)

// TraceEvent is one observation of program state during sandboxed execution.
// Events are append-only and ordered by SequenceNumber, which is strictly
// increasing and gap-free starting at 0.
type TraceEvent struct {
	SequenceNumber  int               `json:"sequence_number"`
	Line            int               `json:"line"`
	EventKind       TraceEventKind    `json:"event_kind"`
	Function        string            `json:"function"`
	StackDepth      int               `json:"stack_depth"`
	LocalsSnapshot  map[string]string `json:"locals_snapshot,omitempty"`
	TimestampOffset float64           `json:"timestamp_offset"`
}

// ExceptionInfo captures an uncaught failure during execution. For timeout
// kills the Type is "TimeoutError", Line is 0 (unknown), and FromHost is
// set. FromHost marks failures synthesized on the host side (deadline
// kills, interpreter failures); the harness never reports it, so a program
// raising its own TimeoutError is still distinguishable.
type ExceptionInfo struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	FromHost bool   `json:"from_host,omitempty"`
}

// IsTimeout reports whether the failure was a host deadline kill rather
// than an exception raised by the program itself.
func (e *ExceptionInfo) IsTimeout() bool {
	return e != nil && e.FromHost && e.Type == "TimeoutError"
}

// DynamicResult is the output of one sandboxed, traced execution.
type DynamicResult struct {
	Success         bool           `json:"success"`
	Trace           []TraceEvent   `json:"trace"`
	Exception       *ExceptionInfo `json:"exception,omitempty"`
	ExecTime        time.Duration  `json:"exec_time"`
	LinesExecuted   int            `json:"lines_executed"`
	FunctionsCalled int            `json:"functions_called"`
	MaxStackDepth   int            `json:"max_stack_depth"`
	Truncated       bool           `json:"truncated"`
	Stdout          string         `json:"stdout,omitempty"`
}
