// lawsearch is the CLI surface over the lexical legal-document search
// engine: variant construction, two-strategy retrieval, and RRF fusion.
package main

import (
	"fmt"
	"os"

	"github.com/brainer3220/law-sub000/cmd/lawsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
