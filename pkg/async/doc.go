// Package async runs a function on its own goroutine and hands back a Future
// for its result.
//
// Async rules of the validator and form submissions both run through Async.
// Callers wait with Await, bound the wait with AwaitContext, select on Done,
// or poll IsComplete:
//
//	future := async.Async(ctx, "taken@example.com", func(ctx context.Context, email string) (bool, error) {
//		return lookupEmail(ctx, email)
//	})
//	exists, err := future.AwaitContext(ctx)
//
// A Future completes with the callback's result and error, with the context
// error when ctx is already done before the callback starts, or with a
// *PanicError matching ErrPanic when the callback panics.
package async
