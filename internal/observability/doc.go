// Package observability builds the process logger and the HTTP access log.
//
// Every request line carries the chi request id, so entries written by
// handlers and guards for the same request can be correlated.
package observability
