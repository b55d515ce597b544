// Command pipekit lists, checks and runs YAML-defined text pipelines.
package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/kbukum/pipekit/errors"
)

const serviceName = "pipekit"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes err as a JSON error envelope.
func printError(w io.Writer, err error) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(errors.ResponseFor(err))
}
