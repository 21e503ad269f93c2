// Package errors provides the structured error type shared by streamkit
// packages. Every failure carries a machine-readable code, a human-readable
// message, optional details and an optional cause, and matches other errors
// of the same code through errors.Is.
package errors
