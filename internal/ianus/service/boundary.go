package service

import (
	"context"
	"errors"
	"time"

	"github.com/ianus-labs/ianus/server/internal/ianus/types"
	"github.com/ianus-labs/ianus/server/internal/logger"
)

// ErrDecisionTimeout — the caller's wait budget ran out.  The underlying
// attempt keeps running and still writes its audit record.
var ErrDecisionTimeout = errors.New("decision timed out")

// DefaultDecisionTimeout is the caller-side wait budget when none is
// configured.
const DefaultDecisionTimeout = 10 * time.Second

// Boundary is the request boundary in front of the engine: it runs each
// attempt on its own goroutine and bounds only how long the caller waits.
//
// On timeout the attempt is deliberately not cancelled — a decision that
// was going to be made still gets made, and its audit record still gets
// written.  The result lands in the buffered channel and is discarded,
// the same abandonment contract as the DB writer's Do.
type Boundary struct {
	engine  *Engine
	timeout time.Duration
	logger  *logger.Logger
}

func NewBoundary(engine *Engine, timeout time.Duration, log *logger.Logger) *Boundary {
	if timeout <= 0 {
		timeout = DefaultDecisionTimeout
	}
	return &Boundary{engine: engine, timeout: timeout, logger: log}
}

type attemptResult struct {
	decision types.Decision
	err      error
}

// Submit runs one access attempt and blocks for at most the configured
// budget.  Caller cancellation also only abandons the wait.
func (b *Boundary) Submit(ctx context.Context, capture []byte, slot types.FingerSlot, hardwareID string) (types.Decision, error) {
	ch := make(chan attemptResult, 1)

	// Detach the attempt from the caller's lifetime: its side effects
	// (matcher session use, audit write) must not die with the request.
	attemptCtx := context.WithoutCancel(ctx)

	go func() {
		decision, err := b.engine.Decide(attemptCtx, capture, slot, hardwareID)
		ch <- attemptResult{decision: decision, err: err}
	}()

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.decision, res.err
	case <-timer.C:
		b.logger.Warn("caller abandoned access attempt",
			"hardware_id", hardwareID,
			"timeout", b.timeout.String())
		return types.Decision{}, ErrDecisionTimeout
	case <-ctx.Done():
		return types.Decision{}, ctx.Err()
	}
}
