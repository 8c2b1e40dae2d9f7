// Package middleware holds the echo middleware of the HTTP gateway adapter:
// request ids, request-scoped logging, New Relic tracing, panic recovery
// and the global error handler.
package middleware
