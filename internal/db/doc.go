// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db is the persistence layer of the reference vehicle store. It
// hides SQLite, PostgreSQL and MySQL behind one VehicleStore backed by bun,
// and applies the embedded schema migrations on open.
package db // import "github.com/toeirei/fleetmaster/internal/db"
