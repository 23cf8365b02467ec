// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Fleetmaster.
//
// Usage:
//
//	go run . [flags]
//	./fleetmaster [flags]
//
// This launches the Fleetmaster CLI. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/fleetmaster/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// cobra already printed the error.
		os.Exit(1)
	}
}
