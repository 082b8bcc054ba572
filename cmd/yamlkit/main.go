package main

import (
	"fmt"
	"os"

	"github.com/shapestone/yamlkit/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "yamlkit: %s\n", err)
		os.Exit(1)
	}
}
