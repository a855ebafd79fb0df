// Command migrate manages the versioned postgres schema in migrations/.
// The sqlite driver is not supported; those schemas are created by the
// server on start.
package main

import (
	"fmt"
	"os"
)

func main() {
	root := newRootCmd(loadDatabase)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
