// Package txctx carries after-commit hooks through a transaction's context.
// Stores open a Scope when they begin the outermost transaction; code running
// inside registers hooks with OnCommit, and the store runs them only once the
// commit succeeded. Outside a transaction OnCommit runs the hook immediately.
package txctx

import (
	"context"
	"sync"
)

type scopeKey struct{}

type Scope struct {
	mu    sync.Mutex
	hooks []func()
}

// Begin returns a context carrying a fresh scope.
func Begin(ctx context.Context) (context.Context, *Scope) {
	s := &Scope{}
	return context.WithValue(ctx, scopeKey{}, s), s
}

// InTx reports whether ctx belongs to an open transaction scope.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(scopeKey{}).(*Scope)
	return ok
}

// OnCommit defers fn until the surrounding transaction commits.
func OnCommit(ctx context.Context, fn func()) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	if !ok {
		fn()
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

// Committed runs registered hooks in registration order.
func (s *Scope) Committed() {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
