// Package async models asynchronous substrate operations (store creation,
// deletion, ownership requests) as awaitable values.
//
// An [Op] is completed exactly once, either resolved with a value or
// rejected with an error. Callbacks registered with [Op.OnDone] run on the
// goroutine that completes the operation, which for the framework is always
// the scheduler loop, so callers never need extra locking. Code outside the
// loop (tests, the HTTP debug API) can block on [Op.Wait] instead.
package async
