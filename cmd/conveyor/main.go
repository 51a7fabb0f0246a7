package main

import (
	"os"

	"github.com/conveyor/conveyor/pkg/cli"
)

// version is set via -ldflags at build time
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
