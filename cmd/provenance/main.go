package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/provenance/internal/cli"
)

// Exit codes: 1 means the response failed verification, 2 means the
// verification itself could not run.
func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, cli.ErrUnsupported) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
