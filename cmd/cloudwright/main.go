// Command cloudwright is a thin CLI over the core architecture-intelligence
// API: pricing an ArchSpec, validating it against compliance frameworks,
// diffing two specs, and refreshing the embedded pricing catalog.
package main

import (
	"fmt"
	"os"

	"cloudwright/cmd/cloudwright/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
