// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package auth supplies access tokens for calls to the vehicle store: a
// static token, a persisted login session, the browser login flow and
// locally minted development tokens.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrNotAuthenticated is returned when no usable access token exists.
var ErrNotAuthenticated = errors.New("not authenticated")

// Provider yields bearer tokens for the gateway and tells the UI whether
// gated screens may be shown.
type Provider interface {
	AccessToken(ctx context.Context) (string, error)
	IsAuthenticated() bool
}

// StaticProvider always returns the same configured token.
type StaticProvider struct {
	Token string
}

func (p StaticProvider) AccessToken(context.Context) (string, error) {
	if strings.TrimSpace(p.Token) == "" {
		return "", ErrNotAuthenticated
	}
	return p.Token, nil
}

func (p StaticProvider) IsAuthenticated() bool {
	return strings.TrimSpace(p.Token) != ""
}
