// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package vehicles

import (
	"fmt"
	"strings"
)

// Policy decides what happens after a save or delete.
type Policy string

const (
	// PolicyAlwaysRefresh navigates back and reloads whatever the outcome.
	PolicyAlwaysRefresh Policy = "always_refresh"
	// PolicyRefreshOnSuccess only navigates back and reloads after a successful mutation.
	PolicyRefreshOnSuccess Policy = "refresh_on_success"
)

// ParsePolicy maps a config value to a Policy. Empty selects PolicyAlwaysRefresh.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAlwaysRefresh:
		return PolicyAlwaysRefresh, nil
	case PolicyRefreshOnSuccess:
		return PolicyRefreshOnSuccess, nil
	default:
		return "", fmt.Errorf("unknown post-mutation behavior %q (want %s or %s)", s, PolicyAlwaysRefresh, PolicyRefreshOnSuccess)
	}
}
