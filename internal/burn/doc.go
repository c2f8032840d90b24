// Package burn schedules subtitle burn jobs onto a bounded worker pool and
// owns the job-facing error taxonomy. Validation runs synchronously at
// submission; rendering is asynchronous and reported through job handles.
package burn
