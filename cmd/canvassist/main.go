package main

import (
	"os"

	"github.com/raihanp/canvassist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
