// Package progress defines the progress messages exchanged between running
// strategies and the presentation layer.
package progress

// ProgressUpdate reports the completion of one strategy, identified by its
// index in the current run.
type ProgressUpdate struct {
	// Index identifies the strategy that sent the update.
	Index int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives completion fractions from 0.0 to 1.0.
type ProgressCallback func(value float64)

// NonBlockingSender returns a callback that forwards updates for index to ch
// without ever blocking the caller. Updates are dropped when ch is full,
// and a nil ch yields a no-op callback.
func NonBlockingSender(ch chan<- ProgressUpdate, index int) ProgressCallback {
	if ch == nil {
		return func(float64) {}
	}
	return func(v float64) {
		select {
		case ch <- ProgressUpdate{Index: index, Value: v}:
		default:
		}
	}
}
