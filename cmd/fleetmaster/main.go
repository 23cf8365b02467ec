// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Command fleetmaster is the installable binary. Build with
//
//	go build -ldflags "-X github.com/toeirei/fleetmaster/buildvars.Version=1.2.3" ./cmd/fleetmaster
package main

import (
	"os"

	"github.com/toeirei/fleetmaster/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
