package runner

import (
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/relayworks/agentrelay/agent"
	"github.com/relayworks/agentrelay/core"
	"github.com/relayworks/agentrelay/model"
	"github.com/relayworks/agentrelay/tool"
)

// toolExecutor runs one turn's batch of tool calls, possibly in parallel, and
// returns exactly one result item per call, ordered as the model requested
// them. It never panics: a panicking tool is recovered and reported as an
// execution error on its own result item.
type toolExecutor struct {
	maxParallel int           // 0 or <1 means no explicit limit
	timeout     time.Duration // per-call deadline, 0 means none
}

func newToolExecutor(maxParallel int, timeout time.Duration) *toolExecutor {
	return &toolExecutor{maxParallel: maxParallel, timeout: timeout}
}

// Execute dispatches the calls against the agent's registry. Results come
// back in request order regardless of completion order.
func (e *toolExecutor) Execute(rc *core.RunContext, a *agent.Agent, calls []model.ToolCall) []core.ToolResultItem {
	n := len(calls)
	if n == 0 {
		return nil
	}

	// Fast path: single call, execute inline.
	if n == 1 {
		return []core.ToolResultItem{e.executeSingle(rc, a, calls[0])}
	}

	maxPar := e.maxParallel
	if maxPar <= 0 || maxPar > n {
		maxPar = n
	}

	results := make([]core.ToolResultItem, n)
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxPar)

	batchStart := time.Now()
	for i := range calls {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, call model.ToolCall) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = e.executeSingle(rc, a, call)
		}(i, calls[i])
	}
	wg.Wait()

	rc.LogDebug(
		"runner.tools.batch.complete",
		"agent", a.Name(),
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	return results
}

func (e *toolExecutor) executeSingle(rc *core.RunContext, a *agent.Agent, call model.ToolCall) core.ToolResultItem {
	hookCtx := core.NewToolContext(rc, call.ID, call.Name)
	a.Hooks().OnToolStart(hookCtx, a)

	start := time.Now()
	var (
		result any
		err    error
	)
	func() { // panic safety
		defer func() {
			if r := recover(); r != nil {
				err = &tool.ToolError{
					Tool:    call.Name,
					Message: "tool panicked",
					Code:    tool.CodeExecution,
				}
				rc.LogError("runner.tool.panic",
					"agent", a.Name(),
					"tool", call.Name,
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		result, err = a.Tools().Invoke(rc, call.ID, call.Name, call.Arguments, e.timeout)
	}()

	rc.LogInfo(
		"runner.tool.executed",
		"agent", a.Name(),
		"tool", call.Name,
		"call_id", call.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	a.Hooks().OnToolEnd(hookCtx, a, result)

	item := core.ToolResultItem{
		ItemHeader: core.NewItemHeader(a.Name()),
		CallID:     call.ID,
		ToolName:   call.Name,
	}
	if err != nil {
		var toolErr *tool.ToolError
		if !errors.As(err, &toolErr) {
			toolErr = &tool.ToolError{Tool: call.Name, Message: err.Error(), Code: tool.CodeExecution}
		}
		item.Error = toolErr.Error()
	} else {
		item.Result = result
	}
	return item
}
