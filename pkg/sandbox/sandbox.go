// Package sandbox runs Python source in an isolated interpreter process and
// records a bounded trace of its execution. The boundary is message
// passing: the harness writes one JSON record per line; the host never
// shares memory with the traced program.
package sandbox

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lumina-tools/lumina/pkg/models"
)

//go:embed harness.py
var harnessScript string

// Defaults for the execution limits. All of them are configuration, not
// contract; see config.SandboxConfig.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultMaxEvents     = 500
	DefaultReprLimit     = 100
	DefaultMemoryLimitMB = 128
	DefaultPython        = "python3"

	// killGrace is how long Wait allows the process group to die after the
	// deadline fires before giving up on pipe teardown.
	killGrace = 2 * time.Second
)

// Runner executes source files inside the sandbox.
type Runner struct {
	timeout       time.Duration
	maxEvents     int
	reprLimit     int
	memoryLimitMB int
	python        string
}

// Option is a functional option for configuring Runner.
type Option func(*Runner)

// WithTimeout sets the wall-clock execution deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxEvents caps the number of recorded trace events. Execution
// continues past the cap; only recording stops.
func WithMaxEvents(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxEvents = n
		}
	}
}

// WithReprLimit bounds the printable length of each captured local value.
func WithReprLimit(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.reprLimit = n
		}
	}
}

// WithMemoryLimitMB caps the interpreter's address space.
func WithMemoryLimitMB(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.memoryLimitMB = n
		}
	}
}

// WithPython sets the interpreter binary.
func WithPython(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.python = path
		}
	}
}

// New creates a sandbox runner with default limits.
func New(opts ...Option) *Runner {
	r := &Runner{
		timeout:       DefaultTimeout,
		maxEvents:     DefaultMaxEvents,
		reprLimit:     DefaultReprLimit,
		memoryLimitMB: DefaultMemoryLimitMB,
		python:        DefaultPython,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// record is one JSON line from the harness.
type record struct {
	Kind string `json:"kind"`

	// event fields
	Event  string            `json:"event"`
	Line   int               `json:"line"`
	Func   string            `json:"func"`
	Depth  int               `json:"depth"`
	Locals map[string]string `json:"locals"`
	TS     float64           `json:"ts"`

	// exit fields
	Success         bool                  `json:"success"`
	ExecTime        float64               `json:"exec_time"`
	LinesExecuted   int                   `json:"lines_executed"`
	FunctionsCalled int                   `json:"functions_called"`
	MaxStackDepth   int                   `json:"max_stack_depth"`
	Truncated       bool                  `json:"truncated"`
	Stdout          string                `json:"stdout"`
	Exception       *models.ExceptionInfo `json:"exception"`
}

// Run executes the source in an isolated interpreter and returns the
// collected trace. The returned error covers host-side failures only
// (interpreter missing, temp dir unwritable); program failures, timeouts,
// and resource kills are reported inside the DynamicResult.
func (r *Runner) Run(ctx context.Context, source []byte) (*models.DynamicResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "lumina-sandbox-")
	if err != nil {
		return nil, fmt.Errorf("create sandbox dir: %w", err)
	}
	defer os.RemoveAll(dir)

	target := filepath.Join(dir, "target.py")
	if err := os.WriteFile(target, source, 0o600); err != nil {
		return nil, fmt.Errorf("write sandbox target: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.python, "-I", "-",
		target,
		strconv.Itoa(r.maxEvents),
		strconv.Itoa(r.reprLimit),
		strconv.Itoa(r.memoryLimitMB*1024*1024),
	)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(harnessScript)
	// Scrubbed environment: interpreter lookup only, no proxy or network
	// configuration leaks into the sandbox.
	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + dir,
		"PYTHONIOENCODING=utf-8",
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Kill the whole process group so children die with the tracer.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = killGrace

	var stderr strings.Builder
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open sandbox pipe: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start interpreter %q: %w", r.python, err)
	}

	events := make([]models.TraceEvent, 0, 64)
	var exit *record
	truncated := false

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue // interleaved garbage from a hostile program
		}
		switch rec.Kind {
		case "event":
			if len(events) >= r.maxEvents {
				truncated = true
				continue
			}
			events = append(events, models.TraceEvent{
				SequenceNumber:  len(events),
				Line:            rec.Line,
				EventKind:       models.TraceEventKind(rec.Event),
				Function:        rec.Func,
				StackDepth:      rec.Depth,
				LocalsSnapshot:  rec.Locals,
				TimestampOffset: rec.TS,
			})
		case "exit":
			recCopy := rec
			exit = &recCopy
		}
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	res := &models.DynamicResult{
		Trace:     events,
		ExecTime:  elapsed,
		Truncated: truncated,
	}

	switch {
	case ctx.Err() == context.DeadlineExceeded:
		res.Success = false
		res.Exception = &models.ExceptionInfo{
			Type:     "TimeoutError",
			Message:  fmt.Sprintf("execution exceeded %s deadline", r.timeout),
			FromHost: true,
		}
		fillCountsFromTrace(res)

	case exit != nil:
		res.Success = exit.Success
		res.Exception = exit.Exception
		res.LinesExecuted = exit.LinesExecuted
		res.FunctionsCalled = exit.FunctionsCalled
		res.MaxStackDepth = exit.MaxStackDepth
		res.Truncated = truncated || exit.Truncated
		res.Stdout = exit.Stdout
		if exit.ExecTime > 0 {
			res.ExecTime = time.Duration(exit.ExecTime * float64(time.Second))
		}

	default:
		// The interpreter died without an exit record: resource kill or
		// harness failure. Reconstruct what the partial trace shows.
		res.Success = false
		msg := strings.TrimSpace(stderr.String())
		if msg == "" && waitErr != nil {
			msg = waitErr.Error()
		}
		res.Exception = &models.ExceptionInfo{
			Type:     "SandboxError",
			Message:  msg,
			FromHost: true,
		}
		fillCountsFromTrace(res)
	}

	return res, nil
}

// fillCountsFromTrace derives execution counters from the collected events
// when the harness could not report them itself.
func fillCountsFromTrace(res *models.DynamicResult) {
	functions := make(map[string]bool)
	for _, ev := range res.Trace {
		if ev.StackDepth > res.MaxStackDepth {
			res.MaxStackDepth = ev.StackDepth
		}
		switch ev.EventKind {
		case models.EventLine:
			res.LinesExecuted++
		case models.EventCall:
			if ev.Function != "<module>" {
				functions[ev.Function] = true
			}
		}
	}
	res.FunctionsCalled = len(functions)
}
