// Package retry provides exponential backoff retry logic for transient failures.
//
// [Do] runs an operation up to a maximum number of attempts, doubling the
// delay between attempts up to a ceiling. It is used for template downloads;
// SingleStore API calls are never retried. Errors wrapped with [Fatal] stop
// the retries immediately.
package retry
