// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package vehicles

import (
	"math"
	"strconv"
	"strings"

	"github.com/toeirei/fleetmaster/internal/model"
)

// NewID is the editor route parameter that opens an empty vehicle.
const NewID = "new"

// ResolutionKind tells the editor what to show for a route parameter.
type ResolutionKind int

const (
	ResolvePending ResolutionKind = iota
	ResolveFound
	ResolveNew
	ResolveNotFound
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolvePending:
		return "pending"
	case ResolveFound:
		return "found"
	case ResolveNew:
		return "new"
	default:
		return "not-found"
	}
}

// Resolution is the outcome of ResolveForEdit. Vehicle is set for
// ResolveFound and is the zero vehicle for ResolveNew.
type Resolution struct {
	Kind    ResolutionKind
	Vehicle model.Vehicle
}

// ResolveForEdit maps an editor route parameter to a vehicle. While the list
// is loading the result is ResolvePending. Numeric ids match numerically, so
// "07", "7.0" and "7e0" all find vehicle 7.
func (c *Controller) ResolveForEdit(id string) Resolution {
	st := c.State()
	return resolve(st, id)
}

func resolve(st State, id string) Resolution {
	if st.Loading {
		return Resolution{Kind: ResolvePending}
	}
	id = strings.TrimSpace(id)
	if id == NewID {
		return Resolution{Kind: ResolveNew}
	}
	n, ok := integralID(id)
	if !ok {
		return Resolution{Kind: ResolveNotFound}
	}
	for _, v := range st.Vehicles {
		if v.ID == n {
			return Resolution{Kind: ResolveFound, Vehicle: v}
		}
	}
	return Resolution{Kind: ResolveNotFound}
}

// integralID reads a decimal number with an integral value.
func integralID(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}
