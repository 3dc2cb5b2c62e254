package main

import (
	"fmt"
	"os"

	"github.com/samvad-hq/samvad-bulletin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bulletin: %v\n", err)
		os.Exit(1)
	}
}
