// Package farm declares the Worker Farm contract: the core treats request
// execution as dispatch to an opaque pool of workers and never bakes in
// whether those workers are in-process goroutines or a separate process
// pool reached over a wire protocol.
//
// © 2025 parcelgo authors. MIT License.
package farm

import "context"

// Task is a unit of work a Farm can run. Payload must return a
// serializable encoding of the task so an out-of-process farm can ship it
// over the wire; an in-process farm calls Execute directly and never
// touches Payload, "short-circuiting serialization" per the contract.
type Task interface {
	Payload() ([]byte, error)
	Execute(ctx context.Context) (any, error)
}

// Farm dispatches a Task to a worker and returns its result. Two tasks
// dispatched concurrently with distinct identities may run concurrently;
// deduplicating identical in-flight tasks is the request tracker's job
// (golang.org/x/sync/singleflight), not the farm's.
type Farm interface {
	Run(ctx context.Context, task Task) (any, error)
}
