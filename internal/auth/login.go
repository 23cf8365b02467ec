// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/toeirei/fleetmaster/internal/logging"
	"golang.org/x/oauth2"
)

// CallbackPath is the redirect route served during a browser login.
const CallbackPath = "/login/callback"

var (
	// ErrStateMismatch is returned when the callback does not carry the
	// state issued for this login.
	ErrStateMismatch = errors.New("login state mismatch")
	// ErrLoginDenied is returned when the identity provider reports an error.
	ErrLoginDenied = errors.New("login denied")
)

// OAuthSettings describes the identity provider client.
type OAuthSettings struct {
	Issuer      string
	ClientID    string
	AuthURL     string
	TokenURL    string
	RedirectURL string
	Scopes      []string
}

// OAuthConfig builds the oauth2 client. Missing endpoints are derived from
// Issuer using the /v1/authorize and /v1/token layout.
func OAuthConfig(s OAuthSettings) (*oauth2.Config, error) {
	authURL, tokenURL := s.AuthURL, s.TokenURL
	issuer := strings.TrimRight(s.Issuer, "/")
	if authURL == "" && issuer != "" {
		authURL = issuer + "/v1/authorize"
	}
	if tokenURL == "" && issuer != "" {
		tokenURL = issuer + "/v1/token"
	}
	if s.ClientID == "" || authURL == "" || tokenURL == "" {
		return nil, fmt.Errorf("oauth login needs a client id and either an issuer or both endpoint urls")
	}
	return &oauth2.Config{
		ClientID:    s.ClientID,
		RedirectURL: s.RedirectURL,
		Scopes:      s.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, nil
}

// LoginFlow runs the authorization code flow with PKCE against a loopback
// redirect listener.
type LoginFlow struct {
	OAuth *oauth2.Config
	// Listener overrides the socket bound from OAuth.RedirectURL.
	Listener net.Listener
	// OpenURL presents the authorization URL to the operator.
	OpenURL func(string) error
	// Timeout bounds the wait for the browser callback. Zero waits until ctx ends.
	Timeout time.Duration
}

type loginResult struct {
	sess Session
	err  error
}

// Handshake is a started login waiting for its callback.
type Handshake struct {
	AuthURL string

	state    string
	verifier string
	result   chan loginResult
	srv      *http.Server
}

// Start binds the callback listener and returns the URL to visit.
func (f *LoginFlow) Start(ctx context.Context) (*Handshake, error) {
	if f.OAuth == nil {
		return nil, fmt.Errorf("login: oauth is not configured")
	}
	redirect, err := url.Parse(f.OAuth.RedirectURL)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("login: invalid redirect url %q", f.OAuth.RedirectURL)
	}
	path := redirect.Path
	if path == "" {
		path = CallbackPath
	}

	l := f.Listener
	if l == nil {
		l, err = net.Listen("tcp", redirect.Host)
		if err != nil {
			return nil, fmt.Errorf("login: listen on %s: %w", redirect.Host, err)
		}
	}

	h := &Handshake{
		state:    uuid.NewString(),
		verifier: oauth2.GenerateVerifier(),
		result:   make(chan loginResult, 1),
	}
	h.AuthURL = f.OAuth.AuthCodeURL(h.state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(h.verifier))

	r := mux.NewRouter()
	r.HandleFunc(path, f.callback(ctx, h)).Methods(http.MethodGet)
	h.srv = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := h.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf("login: callback listener: %v", err)
		}
	}()
	logging.Debugf("login: waiting for callback on %s%s", l.Addr(), path)
	return h, nil
}

func (f *LoginFlow) callback(ctx context.Context, h *Handshake) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		res := loginResult{}
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("%w: %s %s", ErrLoginDenied, q.Get("error"), q.Get("error_description"))
		case q.Get("state") != h.state:
			res.err = ErrStateMismatch
		case q.Get("code") == "":
			res.err = fmt.Errorf("%w: missing authorization code", ErrLoginDenied)
		default:
			tok, err := f.OAuth.Exchange(ctx, q.Get("code"), oauth2.VerifierOption(h.verifier))
			if err != nil {
				res.err = fmt.Errorf("login: exchange code: %w", err)
			} else {
				res.sess = sessionFromToken(tok, "oidc")
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprintf(w, "<p>Fleetmaster login failed: %s</p>", html.EscapeString(res.err.Error()))
		} else {
			_, _ = fmt.Fprint(w, "<p>Fleetmaster login complete. You can close this window.</p>")
		}

		select {
		case h.result <- res:
		default:
		}
	}
}

// Wait blocks until the callback completes or ctx ends, then stops the
// listener.
func (h *Handshake) Wait(ctx context.Context) (Session, error) {
	defer h.Close()
	select {
	case res := <-h.result:
		return res.sess, res.err
	case <-ctx.Done():
		return Session{}, ctx.Err()
	}
}

// Close stops the callback listener.
func (h *Handshake) Close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = h.srv.Shutdown(shutdownCtx)
}

// Run starts a handshake, hands the URL to OpenURL and waits for the callback.
func (f *LoginFlow) Run(ctx context.Context) (Session, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	h, err := f.Start(ctx)
	if err != nil {
		return Session{}, err
	}
	if f.OpenURL != nil {
		if err := f.OpenURL(h.AuthURL); err != nil {
			h.Close()
			return Session{}, err
		}
	}
	return h.Wait(ctx)
}
