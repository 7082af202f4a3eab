package main

import (
	"os"

	"github.com/diascribe/diascribe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
