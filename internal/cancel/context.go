package cancel

import "context"

// ContextCanceler fires by cancelling a child context, so blocking
// calls that were handed Context() return as well.
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewContext derives the child from parent. Cancelling the parent also
// fires the canceler, with the parent's cause.
func NewContext(parent context.Context) *ContextCanceler {
	ctx, cancel := context.WithCancelCause(parent)
	return &ContextCanceler{ctx: ctx, cancel: cancel}
}

// Done polls the child context without blocking.
func (c *ContextCanceler) Done() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel cancels the child with context.Canceled as its cause.
func (c *ContextCanceler) Cancel() {
	c.cancel(nil)
}

// CancelCause cancels the child; only the first call's err is kept.
func (c *ContextCanceler) CancelCause(err error) {
	c.cancel(err)
}

// Cause returns nil until the child is cancelled, then context.Cause.
func (c *ContextCanceler) Cause() error {
	if !c.Done() {
		return nil
	}
	return context.Cause(c.ctx)
}

// Context returns the child, for exec.CommandContext and other blocking
// calls.
func (c *ContextCanceler) Context() context.Context {
	return c.ctx
}
