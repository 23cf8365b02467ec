// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package util

import "cmp"

// Clamp bounds wanted to [lo, hi]. When hi < lo, lo wins.
func Clamp[T cmp.Ordered](lo, wanted, hi T) T {
	return max(lo, min(wanted, hi))
}
