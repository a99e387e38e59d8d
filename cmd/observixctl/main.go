// Command observixctl is the operator CLI for Observix: it talks to the
// control plane's HTTP API to manage pipelines, assignments, and to
// inspect agents. It holds no state of its own.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error from the control plane client to the exit
// code contract: 0 on success, 1 on transport failure, 2 on a non-2xx
// response (with its body printed to stderr).
func exitCodeFor(err error) int {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		fmt.Fprintln(os.Stderr, apiErr.body)
		return 2
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}
