// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli implements the fleetmaster command line. Without a subcommand
// it starts the terminal shell.
package cli
