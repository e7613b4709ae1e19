/*
Package cmd provides CLI helper functionality.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/hoistlabs/bricksmith/internal"
)

// PrintError writes a single-line error summary to stderr.
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.HiRedString("Error:"), err.Error())
}

// PrintErrorDetail writes any HTTP response captured in the error chain to
// stderr, for use alongside PrintError when debugging is enabled.
func PrintErrorDetail(err error) {
	var httpErr *internal.HTTPError
	if errors.As(err, &httpErr) {
		fmt.Fprintf(os.Stderr, "status: %d\nbody: %s\n", httpErr.Status, httpErr.Body)
	}
}
