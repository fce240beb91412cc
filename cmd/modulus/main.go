// Package main provides the modulus command-line tool.
package main

import (
	"os"

	"github.com/RMahshie/modulus/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
