package log

import "context"

type noCancelCtx struct {
	context.Context
}

func (ctx *noCancelCtx) Done() <-chan struct{} {
	return nil
}

// WithNoCancel keeps the values of ctx but detaches its cancellation, for
// work that must outlive the request that triggered it.
func WithNoCancel(ctx context.Context) context.Context {
	return &noCancelCtx{Context: ctx}
}
