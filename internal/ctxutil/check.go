// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled checks if the context has been canceled or exceeded its deadline.
// Returns the context error if done (Canceled or DeadlineExceeded), nil
// otherwise. Cells and command handlers check this at entry and between
// steps so cancellation is observed at step boundaries.
//
// The implementation directly returns ctx.Err() because it already returns
// nil if Done is not yet closed.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
