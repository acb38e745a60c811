// Package http implements the debug API of the sync host.
//
// It exposes the hosted peers, their entities and session users as JSON,
// lets an operator toggle entity ownership, and streams hub events over a
// websocket. Request tracing and access logging are handled here before
// requests reach the service layer.
package http
