package main

import (
	"os"

	"github.com/knowgraph/knowgraph/cmd/knowgraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
