// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging, and persistence
// helpers for Fleetmaster. It uses Viper for file/env/flag parsing and exposes
// utility functions to read/write configuration files.
package config
