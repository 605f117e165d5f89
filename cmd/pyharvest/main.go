package main

import (
	"os"

	"github.com/veldt-labs/pyharvest-cli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
