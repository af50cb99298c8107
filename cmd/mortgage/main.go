package main

import (
	"os"

	"mortgage/cmd/mortgage/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
