package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned by the token source once the session is cleared or
// was never loaded; callers surface it as an auth failure, not a crash.
var ErrNoToken = errors.New("no API token in session")

// Session is the single process-wide credential holder for calls to the HR
// backend and the lock service. It is constructed once at startup and handed
// to the networking layer; nothing else reads token storage.
type Session struct {
	mu    sync.RWMutex
	token string
}

func New(token string) *Session {
	return &Session{token: token}
}

// Token returns the current bearer token ("" once cleared).
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear drops the credential at logout/shutdown. In-flight requests keep the
// token they already read; new requests fail with ErrNoToken.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// TokenSource adapts the session to oauth2 so clients pick up the live token
// on every request rather than a startup snapshot.
func (s *Session) TokenSource() oauth2.TokenSource {
	return tokenSource{session: s}
}

// HTTPClient returns an http.Client that attaches the session's bearer token
// to every outgoing request.
func (s *Session) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, s.TokenSource())
}

type tokenSource struct {
	session *Session
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	token := ts.session.Token()
	if token == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
