package matcher

import (
	"context"
	"sync"
)

// SessionGuard serializes access to a shared matcher session.  The
// underlying SDK session carries mutable state between calls, so two
// concurrent access attempts must never interleave extraction and
// identification.  All engine use goes through With.
type SessionGuard struct {
	mu      sync.Mutex
	session Matcher
}

func NewSessionGuard(session Matcher) *SessionGuard {
	return &SessionGuard{session: session}
}

// With runs fn while holding the session exclusively.  The session is
// cleared before fn runs (nothing from the previous attempt may leak in)
// and cleared again after fn returns, on every exit path, so the next
// holder always starts fresh.
func (g *SessionGuard) With(ctx context.Context, fn func(m Matcher) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.session.ClearSession(ctx); err != nil {
		return err
	}
	defer func() {
		// Best-effort: the pre-fn clear above protects the next holder
		// even if this one fails.
		_ = g.session.ClearSession(context.WithoutCancel(ctx))
	}()

	return fn(g.session)
}
