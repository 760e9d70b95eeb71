// Package main provides the entry point for the pfind CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/pfind/cmd/pfind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
