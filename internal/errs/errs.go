// Package errs defines custom error types and utilities.
//
// It creates specific error structures (FieldError for forms, HTTPError
// for responses) so clients receive meaningful, actionable and consistent
// error messages.
package errs
