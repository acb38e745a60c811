package async

import (
	"context"
	"sync"
)

// Result is the tagged outcome of an Op: Err is nil on success.
type Result[T any] struct {
	Value T
	Err   error
}

// Op is a single-shot asynchronous operation.
type Op[T any] struct {
	mu        sync.Mutex
	done      bool
	result    Result[T]
	callbacks []func(Result[T])
	ch        chan struct{}
}

// New returns a pending operation.
func New[T any]() *Op[T] {
	return &Op[T]{ch: make(chan struct{})}
}

// Resolved returns an operation that already succeeded with v.
func Resolved[T any](v T) *Op[T] {
	op := New[T]()
	op.Resolve(v)
	return op
}

// Failed returns an operation that already failed with err.
func Failed[T any](err error) *Op[T] {
	op := New[T]()
	op.Reject(err)
	return op
}

// Resolve completes the operation with v. It returns false if the
// operation was already completed.
func (o *Op[T]) Resolve(v T) bool {
	return o.complete(Result[T]{Value: v})
}

// Reject completes the operation with err. It returns false if the
// operation was already completed.
func (o *Op[T]) Reject(err error) bool {
	return o.complete(Result[T]{Err: err})
}

func (o *Op[T]) complete(r Result[T]) bool {
	o.mu.Lock()
	if o.done {
		o.mu.Unlock()
		return false
	}
	o.done = true
	o.result = r
	callbacks := o.callbacks
	o.callbacks = nil
	close(o.ch)
	o.mu.Unlock()

	for _, cb := range callbacks {
		cb(r)
	}
	return true
}

// OnDone registers fn to run when the operation completes. If it is already
// complete fn runs immediately on the calling goroutine.
func (o *Op[T]) OnDone(fn func(Result[T])) *Op[T] {
	o.mu.Lock()
	if !o.done {
		o.callbacks = append(o.callbacks, fn)
		o.mu.Unlock()
		return o
	}
	r := o.result
	o.mu.Unlock()

	fn(r)
	return o
}

// Then is OnDone split into a success and an error branch. Either may be nil.
func (o *Op[T]) Then(onSuccess func(T), onError func(error)) *Op[T] {
	return o.OnDone(func(r Result[T]) {
		if r.Err != nil {
			if onError != nil {
				onError(r.Err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(r.Value)
		}
	})
}

// Done reports whether the operation has completed.
func (o *Op[T]) Done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.done
}

// Result returns the outcome and whether the operation has completed.
func (o *Op[T]) Result() (Result[T], bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result, o.done
}

// Wait blocks until the operation completes or ctx is done.
// It must not be called from the goroutine that is expected to complete it.
func (o *Op[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.ch:
		r, _ := o.Result()
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Map returns an operation completed with fn applied to o's value.
func Map[T, U any](o *Op[T], fn func(T) U) *Op[U] {
	out := New[U]()
	o.OnDone(func(r Result[T]) {
		if r.Err != nil {
			out.Reject(r.Err)
			return
		}
		out.Resolve(fn(r.Value))
	})
	return out
}

// Forward completes dst with the outcome of src.
func Forward[T any](src, dst *Op[T]) {
	src.OnDone(func(r Result[T]) {
		if r.Err != nil {
			dst.Reject(r.Err)
			return
		}
		dst.Resolve(r.Value)
	})
}
