package main

import (
	"os"

	"github.com/rustyeddy/maxoi/cmd/maxoi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
