// Package async runs independent checks concurrently and collects
// every failure.
//
// [RunAll] starts one goroutine per [Task] and returns the joined errors
// once all of them have finished. The CLI uses it to probe the
// SingleStore API and the cloud provider at the same time.
package async
