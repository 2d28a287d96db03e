package main

import (
	"os"

	"github.com/arthur-debert/envrender/internal/cli"
)

func main() {
	os.Exit(cli.Run(cli.NewRootCmd()))
}
