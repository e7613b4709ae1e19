// Package internal is code only for consumption from within the bricksmith
// project.
package internal

// Version is the bricksmith version. Set at link time.
var Version = "unknown"

//go:fix inline
func Ptr[T any](t T) *T { return new(t) }
