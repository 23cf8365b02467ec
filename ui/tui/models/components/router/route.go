// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package router

import (
	"strings"

	"github.com/toeirei/fleetmaster/ui/tui/util"
)

// Params are the values bound to ":name" segments of a route pattern.
type Params map[string]string

// Route maps a path pattern such as "/vehicles/:id" to a view.
type Route struct {
	Pattern string
	Title   string
	// Gated routes require the guard to pass.
	Gated bool
	Build func(Params) *util.Model
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Match binds path against pattern.
func Match(pattern, path string) (Params, bool) {
	ps, segs := splitPath(pattern), splitPath(path)
	if len(ps) != len(segs) {
		return nil, false
	}
	params := Params{}
	for i, p := range ps {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if segs[i] == "" {
				return nil, false
			}
			params[name] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func (r *Router) lookup(path string) (Route, Params, bool) {
	for _, route := range r.routes {
		if params, ok := Match(route.Pattern, path); ok {
			return route, params, true
		}
	}
	return Route{}, nil, false
}
