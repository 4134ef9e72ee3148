// Command doctransform runs the punctuate, split, summarize and cosmetic
// features over markdown documents, from the command line or as an HTTP
// service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
