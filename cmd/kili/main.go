// cmd/kili/main.go
//
// Kili – operator CLI.
//
// Commands
// --------
//   kili check                      validate the catalog document
//   kili query  [-q] [--category]   one page of the library listing
//   kili related <slug> [--count]   related-video selection
//   kili categories                 category index by size
//   kili cache purge                drop the Valkey document copy
//
// Every command reads the same document the web server would: the source
// in conf/global.yaml, unless --file or --url points somewhere else.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errProblems) {
			fmt.Fprintln(os.Stderr, "kili:", err)
		}
		os.Exit(1)
	}
}
