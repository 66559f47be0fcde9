// Package poll provides a cancellable wait primitive for remote resources
// that are created asynchronously.
//
// [AwaitState] fetches the current state of a resource until it reports the
// target state, the timeout elapses, the fetch fails, or the context is
// cancelled. The clock is injectable so waits can be tested without real
// sleeps.
package poll
