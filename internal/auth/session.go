// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/toeirei/fleetmaster/internal/logging"
	"golang.org/x/oauth2"
)

// expirySkew treats tokens as expired slightly early so a request does not
// race the deadline.
const expirySkew = 30 * time.Second

// Session is a stored login.
type Session struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	TokenType    string    `yaml:"token_type,omitempty"`
	Expiry       time.Time `yaml:"expiry,omitempty"`
	Subject      string    `yaml:"subject,omitempty"`
	Mode         string    `yaml:"mode,omitempty"`
}

// Expired reports whether the access token is past its expiry. A zero
// expiry never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && !now.Add(expirySkew).Before(s.Expiry)
}

func sessionFromToken(tok *oauth2.Token, mode string) Session {
	s := Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		Mode:         mode,
	}
	if claims, err := UnverifiedClaims(tok.AccessToken); err == nil {
		s.Subject = claims.Subject
		if s.Expiry.IsZero() && claims.ExpiresAt != nil {
			s.Expiry = claims.ExpiresAt.Time
		}
	}
	return s
}

// SessionStore keeps a Session as YAML in a single owner-only file.
type SessionStore struct {
	Path string
}

// NewSessionStore stores the session as session.yaml inside dir.
func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{Path: filepath.Join(dir, "session.yaml")}
}

// Load returns ErrNotAuthenticated when no session file exists.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", s.Path, err)
	}
	if sess.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}
	return &sess, nil
}

func (s *SessionStore) Save(sess Session) error {
	data, err := yaml.Marshal(sess)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	return os.WriteFile(s.Path, data, 0o600)
}

// Clear removes the session file. A missing file is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SessionProvider serves the stored session's token and refreshes it via
// OAuth when it has expired.
type SessionProvider struct {
	store *SessionStore
	oauth *oauth2.Config
	now   func() time.Time

	mu   sync.Mutex
	sess *Session
}

// NewSessionProvider loads the current session from store. oauth may be nil,
// in which case expired sessions cannot be refreshed.
func NewSessionProvider(store *SessionStore, oauth *oauth2.Config) *SessionProvider {
	p := &SessionProvider{store: store, oauth: oauth, now: time.Now}
	if sess, err := store.Load(); err == nil {
		p.sess = sess
	} else if !errors.Is(err, ErrNotAuthenticated) {
		logging.Warnf("auth: ignoring unreadable session: %v", err)
	}
	return p
}

// Session returns a copy of the current session, if any.
func (p *SessionProvider) Session() (Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return Session{}, false
	}
	return *p.sess, true
}

// SetSession persists sess and makes it current.
func (p *SessionProvider) SetSession(sess Session) error {
	if err := p.store.Save(sess); err != nil {
		return err
	}
	p.mu.Lock()
	p.sess = &sess
	p.mu.Unlock()
	return nil
}

// Logout forgets the session.
func (p *SessionProvider) Logout() error {
	p.mu.Lock()
	p.sess = nil
	p.mu.Unlock()
	return p.store.Clear()
}

func (p *SessionProvider) IsAuthenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return false
	}
	return !p.sess.Expired(p.now()) || p.canRefresh()
}

func (p *SessionProvider) canRefresh() bool {
	return p.sess.RefreshToken != "" && p.oauth != nil && p.oauth.Endpoint.TokenURL != ""
}

func (p *SessionProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return "", ErrNotAuthenticated
	}
	if !p.sess.Expired(p.now()) {
		return p.sess.AccessToken, nil
	}
	if !p.canRefresh() {
		return "", fmt.Errorf("%w: session expired", ErrNotAuthenticated)
	}

	stale := &oauth2.Token{RefreshToken: p.sess.RefreshToken, Expiry: p.now().Add(-time.Minute)}
	tok, err := p.oauth.TokenSource(ctx, stale).Token()
	if err != nil {
		return "", fmt.Errorf("%w: refresh failed: %v", ErrNotAuthenticated, err)
	}
	next := sessionFromToken(tok, p.sess.Mode)
	if next.RefreshToken == "" {
		next.RefreshToken = p.sess.RefreshToken
	}
	if err := p.store.Save(next); err != nil {
		logging.Warnf("auth: could not persist refreshed session: %v", err)
	}
	p.sess = &next
	logging.Debugf("auth: refreshed access token, expires %s", next.Expiry.Format(time.RFC3339))
	return next.AccessToken, nil
}

// DevSession mints a local HS256 token for subject. The reference server
// accepts it when configured with the same secret.
func DevSession(secret []byte, subject string, ttl time.Duration) (Session, error) {
	tok, err := MintToken(secret, subject, ttl)
	if err != nil {
		return Session{}, err
	}
	return Session{
		AccessToken: tok,
		TokenType:   "Bearer",
		Expiry:      ExpiryOf(tok),
		Subject:     subject,
		Mode:        "dev",
	}, nil
}
