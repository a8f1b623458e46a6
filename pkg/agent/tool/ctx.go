package tool

import "context"

// UpdateFunc posts a progress message while a tool runs, so the caller
// can show what the agent is doing in real time.
type UpdateFunc func(ctx context.Context, message string)

type contextKey struct{}

// WithUpdate returns a context carrying the given UpdateFunc
func WithUpdate(ctx context.Context, fn UpdateFunc) context.Context {
	return context.WithValue(ctx, contextKey{}, fn)
}

// Update reports a progress message through the UpdateFunc in ctx.
// Without one in ctx it is a no-op.
func Update(ctx context.Context, message string) {
	if fn, ok := ctx.Value(contextKey{}).(UpdateFunc); ok {
		fn(ctx, message)
	}
}
