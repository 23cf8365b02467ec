// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui runs the terminal shell. Views live under models/, the
// vehicle workflows they drive live in internal/vehicles.
package tui
