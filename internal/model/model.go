// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model holds the domain records shared by the client, the terminal
// UI and the reference vehicle store.
package model

import (
	"fmt"
	"time"
)

// Vehicle is the managed record. A zero ID marks a vehicle that has not been
// persisted yet; sending it to the store creates it.
type Vehicle struct {
	ID        int        `json:"id,omitempty"`
	Year      Scalar     `json:"year"`
	Make      Scalar     `json:"make"`
	Model     Scalar     `json:"model"`
	CreatedAt *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

// IsPersisted reports whether the vehicle carries a store-assigned id.
func (v Vehicle) IsPersisted() bool {
	return v.ID != 0
}

// Transient returns a copy without id and timestamps.
func (v Vehicle) Transient() Vehicle {
	v.ID = 0
	v.CreatedAt = nil
	v.UpdatedAt = nil
	return v
}

// String returns a short "year make model" label.
func (v Vehicle) String() string {
	return fmt.Sprintf("%s %s %s", v.Year, v.Make, v.Model)
}

// BackupSchemaVersion is written into every backup file.
const BackupSchemaVersion = 1

// BackupData is the on-disk shape of a vehicle export.
type BackupData struct {
	SchemaVersion int       `json:"schemaVersion"`
	ExportedAt    time.Time `json:"exportedAt"`
	Vehicles      []Vehicle `json:"vehicles"`
}
