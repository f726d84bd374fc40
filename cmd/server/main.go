package main

import (
	"os"

	"github.com/threaddit/backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
