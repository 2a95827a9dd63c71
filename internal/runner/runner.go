package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/terragate/terragate/internal/models"
)

// DefaultTimeout is the per-tool execution timeout.
const DefaultTimeout = 5 * time.Minute

// ExecFunc runs a command in dir and captures stdout. Implementations
// should return whatever stdout was produced even when the command
// exits non-zero, since several scanners emit their JSON report and a
// failure exit code together.
type ExecFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// OSExec is the production ExecFunc backed by os/exec.
func OSExec(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return stdout.Bytes(), fmt.Errorf("%s failed: %w: %s", name, err, stderr.String())
		}
		return stdout.Bytes(), fmt.Errorf("%s failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// Invocation describes a single tool command.
type Invocation struct {
	Tool    models.SourceTool
	Binary  string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// Result is the outcome of one invocation. Err set means the tool
// failed to execute (including timeout) - distinct from a tool that ran
// cleanly and reported findings.
type Result struct {
	Tool     models.SourceTool
	Output   []byte
	Duration time.Duration
	Err      error
}

// Runner executes scanner processes.
type Runner struct {
	execFn ExecFunc
}

// New creates a Runner with the given exec function.
func New(execFn ExecFunc) *Runner {
	return &Runner{execFn: execFn}
}

// Run executes the invocations concurrently - they have no data
// dependencies on one another - and returns results in invocation
// order. Each tool completes or times out independently; there is no
// cancellation propagation between them and no retry.
func (r *Runner) Run(ctx context.Context, invocations []Invocation) []Result {
	results := make([]Result, len(invocations))

	var wg sync.WaitGroup
	for i, inv := range invocations {
		wg.Add(1)
		go func(i int, inv Invocation) {
			defer wg.Done()
			results[i] = r.runOne(ctx, inv)
		}(i, inv)
	}
	wg.Wait()

	return results
}

// RunOne executes a single invocation synchronously.
func (r *Runner) RunOne(ctx context.Context, inv Invocation) Result {
	return r.runOne(ctx, inv)
}

func (r *Runner) runOne(ctx context.Context, inv Invocation) Result {
	timeout := inv.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	toolCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	output, err := r.execFn(toolCtx, inv.Dir, inv.Binary, inv.Args...)
	duration := time.Since(start)

	if toolCtx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("%s timed out after %s", inv.Binary, timeout)
	}

	return Result{
		Tool:     inv.Tool,
		Output:   output,
		Duration: duration,
		Err:      err,
	}
}
