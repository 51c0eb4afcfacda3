// Package auth owns the session/identity context: cookie sessions, the
// middleware that restores the current user on every request, and the
// guard middlewares that gate page access.
//
// The held identity is re-fetched from the database on each request via
// the UserFetcher, so approval and admin changes made by an admin take
// effect on the affected user's very next request.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// Navigation targets used by the guard middlewares. Kept in one place so
// a different page layout only has to change these.
const (
	LoginURL   = "/login"
	PendingURL = "/pending"
	MemberURL  = "/groups"
	HomeURL    = "/"
)

// SessionUser is the identity injected into r.Context() for signed-in
// requests.
type SessionUser struct {
	ID       string
	Name     string
	Email    string
	Approved bool
	IsAdmin  bool
}

// UserFetcher loads fresh user data for a session's user id. Returning
// nil means the session is no longer valid (user deleted or unknown).
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// SessionManager wraps the cookie store and the auth middlewares.
type SessionManager struct {
	store       *sessions.CookieStore
	sessionName string
	log         *zap.Logger
	fetcher     UserFetcher
}

// NewSessionManager builds a SessionManager with the given signing key
// and cookie settings. An empty key is a hard error: running with an
// unsigned session cookie is never acceptable.
func NewSessionManager(sessionKey, sessionName, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:       store,
		sessionName: sessionName,
		log:         logger,
	}, nil
}

// SetUserFetcher installs the fetcher LoadSessionUser uses to resolve a
// session's user id into a fresh SessionUser.
func (m *SessionManager) SetUserFetcher(f UserFetcher) { m.fetcher = f }

// SignIn records the user id in the session cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, _ := m.store.Get(r, m.sessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.sessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-user context                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user and a "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user into the request context. Test helper;
// bypasses the session store entirely.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// LoadSessionUser restores the current user into context on every
// request. A stale or tampered cookie (securecookie decode failure) is
// dropped and the request proceeds anonymously.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.sessionName)
		if err != nil {
			if _, ok := err.(securecookie.Error); ok {
				m.log.Warn("dropping undecodable session cookie", zap.Error(err))
				sess.Options.MaxAge = -1
				_ = sess.Save(r, w)
			}
			next.ServeHTTP(w, r)
			return
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			if id, _ := sess.Values[userIDKey].(string); id != "" && m.fetcher != nil {
				if u := m.fetcher.FetchUser(r.Context(), id); u != nil {
					r = withUser(r, u)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Guards                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// RequireSignedIn redirects anonymous requests to the login page with a
// return parameter.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireApproved gates member pages: anonymous → login, signed in but
// unapproved → the pending-approval page.
func (m *SessionManager) RequireApproved(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		if !u.Approved {
			http.Redirect(w, r, PendingURL, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates admin pages. A user whose record says is_admin but
// not approved is NOT an admin here; they land on the member page like
// everyone else.
func (m *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireApproved(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := CurrentUser(r)
		if !u.IsAdmin || !u.Approved {
			http.Redirect(w, r, MemberURL, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RedirectIfSignedIn is the inverse guard for public-only pages (login,
// register): a signed-in approved user goes to the member landing page,
// an unapproved one to the pending page.
func (m *SessionManager) RedirectIfSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := CurrentUser(r); ok {
			if u.Approved {
				http.Redirect(w, r, MemberURL, http.StatusSeeOther)
			} else {
				http.Redirect(w, r, PendingURL, http.StatusSeeOther)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))
	if wantsHTML(r) {
		http.Redirect(w, r, LoginURL+"?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
