// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package vehicles

import (
	"slices"

	"github.com/toeirei/fleetmaster/internal/model"
)

// Order returns a sorted copy of vs: most recently updated first, vehicles
// without updatedAt last, ties broken by year ascending with null years
// after the others. Full ties keep their input order.
func Order(vs []model.Vehicle) []model.Vehicle {
	out := slices.Clone(vs)
	if out == nil {
		out = []model.Vehicle{}
	}
	slices.SortStableFunc(out, compareForDisplay)
	return out
}

func compareForDisplay(a, b model.Vehicle) int {
	switch {
	case a.UpdatedAt == nil && b.UpdatedAt != nil:
		return 1
	case a.UpdatedAt != nil && b.UpdatedAt == nil:
		return -1
	case a.UpdatedAt != nil && b.UpdatedAt != nil:
		if c := b.UpdatedAt.Compare(*a.UpdatedAt); c != 0 {
			return c
		}
	}
	switch {
	case a.Year.IsNull() && !b.Year.IsNull():
		return 1
	case !a.Year.IsNull() && b.Year.IsNull():
		return -1
	}
	return a.Year.Compare(b.Year)
}
