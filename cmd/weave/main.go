// Command weave is the CLI front-end for the weave transformation engine.
package main

import (
	"fmt"
	"os"

	"github.com/weavelang/weave/cmd/weave/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
