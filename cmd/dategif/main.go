package main

import (
	"os"

	"github.com/ivlev/dategif/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
