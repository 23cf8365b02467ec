// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package app turns a loaded configuration into the services shared by the
// command line and the terminal shell.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/fleetmaster/internal/auth"
	"github.com/toeirei/fleetmaster/internal/config"
	"github.com/toeirei/fleetmaster/internal/gateway"
	"github.com/toeirei/fleetmaster/internal/logging"
	"github.com/toeirei/fleetmaster/internal/vehicles"
	"golang.org/x/oauth2"
)

// Auth modes accepted in auth.mode.
const (
	ModeStatic = "static"
	ModeDev    = "dev"
	ModeOIDC   = "oidc"
)

// devTokenTTL is the lifetime of a locally minted development token.
const devTokenTTL = 12 * time.Hour

// loginTimeout bounds a browser login started from the command line.
const loginTimeout = 5 * time.Minute

// ErrLoginUnsupported is returned by Login in static mode.
var ErrLoginUnsupported = errors.New("login is not available with a static token")

// App bundles the token provider and the gateway built from one Config.
type App struct {
	Config   config.Config
	Provider auth.Provider
	// Sessions is nil in static mode.
	Sessions *auth.SessionProvider
	Gateway  *gateway.Client

	oauth *oauth2.Config
}

// New wires the services for cfg. sessionDir holds session.yaml; an empty
// value selects the user config dir.
func New(cfg config.Config, sessionDir string) (*App, error) {
	a := &App{Config: cfg}
	mode := strings.ToLower(strings.TrimSpace(cfg.Auth.Mode))

	switch mode {
	case ModeStatic:
		a.Provider = auth.StaticProvider{Token: cfg.Auth.Token}
	case ModeDev, ModeOIDC, "":
		if sessionDir == "" {
			dir, err := config.UserDir()
			if err != nil {
				return nil, fmt.Errorf("could not locate session directory: %w", err)
			}
			sessionDir = dir
		}
		if mode == ModeOIDC {
			oc, err := auth.OAuthConfig(auth.OAuthSettings{
				Issuer:      cfg.Auth.Issuer,
				ClientID:    cfg.Auth.ClientID,
				AuthURL:     cfg.Auth.AuthURL,
				TokenURL:    cfg.Auth.TokenURL,
				RedirectURL: cfg.Auth.RedirectURL,
				Scopes:      cfg.Auth.Scopes,
			})
			if err != nil {
				return nil, err
			}
			a.oauth = oc
		}
		a.Sessions = auth.NewSessionProvider(auth.NewSessionStore(sessionDir), a.oauth)
		a.Provider = a.Sessions
	default:
		return nil, fmt.Errorf("unknown auth mode %q (want static, dev or oidc)", cfg.Auth.Mode)
	}

	opts := []gateway.Option{}
	if cfg.API.BaseURL != "" {
		opts = append(opts, gateway.WithBaseURL(cfg.API.BaseURL))
	}
	if cfg.API.Timeout > 0 {
		opts = append(opts, gateway.WithTimeout(cfg.API.Timeout))
	}
	a.Gateway = gateway.New(a.Provider, opts...)
	return a, nil
}

// Mode reports the effective auth mode.
func (a *App) Mode() string {
	m := strings.ToLower(strings.TrimSpace(a.Config.Auth.Mode))
	if m == "" {
		return ModeDev
	}
	return m
}

// Controller builds a vehicle controller honoring the vehicles.* settings.
// opts are applied after the configured ones.
func (a *App) Controller(opts ...vehicles.Option) (*vehicles.Controller, error) {
	policy, err := vehicles.ParsePolicy(a.Config.Vehicles.PostMutationBehavior)
	if err != nil {
		return nil, err
	}
	base := []vehicles.Option{vehicles.WithPolicy(policy)}
	if a.Config.Vehicles.GuardInflight {
		base = append(base, vehicles.WithInflightGuard())
	}
	return vehicles.New(a.Gateway, append(base, opts...)...), nil
}

// LoginFlow returns the browser flow for oidc mode.
func (a *App) LoginFlow(openURL func(string) error) (*auth.LoginFlow, error) {
	if a.oauth == nil {
		return nil, fmt.Errorf("login flow needs auth.mode %q", ModeOIDC)
	}
	return &auth.LoginFlow{OAuth: a.oauth, OpenURL: openURL, Timeout: loginTimeout}, nil
}

// DevLogin mints and stores a development session.
func (a *App) DevLogin() (auth.Session, error) {
	if a.Sessions == nil {
		return auth.Session{}, ErrLoginUnsupported
	}
	sess, err := auth.DevSession([]byte(a.Config.Auth.DevSecret), a.Config.Auth.DevSubject, devTokenTTL)
	if err != nil {
		return auth.Session{}, err
	}
	if err := a.Sessions.SetSession(sess); err != nil {
		return auth.Session{}, err
	}
	logging.Infof("app: dev session issued for %s", sess.Subject)
	return sess, nil
}

// Login signs in using the configured mode. In oidc mode openURL receives
// the authorization URL.
func (a *App) Login(ctx context.Context, openURL func(string) error) (auth.Session, error) {
	switch a.Mode() {
	case ModeStatic:
		return auth.Session{}, ErrLoginUnsupported
	case ModeDev:
		return a.DevLogin()
	}
	flow, err := a.LoginFlow(openURL)
	if err != nil {
		return auth.Session{}, err
	}
	sess, err := flow.Run(ctx)
	if err != nil {
		return auth.Session{}, err
	}
	return sess, a.CompleteLogin(sess)
}

// CompleteLogin stores a session obtained from a finished handshake.
func (a *App) CompleteLogin(sess auth.Session) error {
	if a.Sessions == nil {
		return ErrLoginUnsupported
	}
	if err := a.Sessions.SetSession(sess); err != nil {
		return err
	}
	logging.Infof("app: signed in as %s", sess.Subject)
	return nil
}

// Logout clears the stored session.
func (a *App) Logout() error {
	if a.Sessions == nil {
		return ErrLoginUnsupported
	}
	return a.Sessions.Logout()
}

// Identity describes the current sign-in for status output.
type Identity struct {
	Mode          string
	Authenticated bool
	Subject       string
	Expiry        time.Time
}

func (a *App) Identity() Identity {
	id := Identity{Mode: a.Mode(), Authenticated: a.Provider.IsAuthenticated()}
	if a.Sessions != nil {
		if sess, ok := a.Sessions.Session(); ok {
			id.Subject = sess.Subject
			id.Expiry = sess.Expiry
		}
	} else if claims, err := auth.UnverifiedClaims(a.Config.Auth.Token); err == nil {
		id.Subject = claims.Subject
		if claims.ExpiresAt != nil {
			id.Expiry = claims.ExpiresAt.Time
		}
	}
	return id
}
