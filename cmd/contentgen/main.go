// Command contentgen runs pipeline steps from the terminal against the
// same database and providers as the API server.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, c := newRootCmd(defaultOpener)
	err := root.Execute()
	if cerr := c.close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Warning:", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
