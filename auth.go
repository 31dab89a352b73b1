package main

import (
	"context"
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

const (
	sessionCookieName = "session"
	csrfCookieName    = "CSRF-TOKEN"
	csrfHeaderName    = "X-CSRF-Token"
)

// identity is what authenticate resolved for the current request.
type identity struct {
	user    *User
	session *Session
}

func identityFrom(r *http.Request) *identity {
	id, _ := r.Context().Value(ctxKeyIdentity).(*identity)
	return id
}

// currentUser returns the logged-in user, or nil.
func currentUser(r *http.Request) *User {
	if id := identityFrom(r); id != nil {
		return id.user
	}
	return nil
}

func isAuthenticated(r *http.Request) bool {
	return currentUser(r) != nil
}

// isAuthorized reports whether userID is the identity resolved when the
// request arrived. Later changes to the session do not affect the answer.
func isAuthorized(r *http.Request, userID int64) bool {
	u := currentUser(r)
	return u != nil && u.ID == userID
}

// authenticate resolves the session cookie into an identity. Any failure
// leaves the request anonymous.
func (b *Blog) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := &identity{}

		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			id.user, id.session = b.resolveSession(r.Context(), cookie.Value)
		}

		ctx := context.WithValue(r.Context(), ctxKeyIdentity, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (b *Blog) resolveSession(ctx context.Context, token string) (*User, *Session) {
	session, err := b.store.getSession(ctx, token)
	if err != nil {
		loggerFrom(ctx).Warn("loading session", zap.Error(err))
		return nil, nil
	}
	if session == nil {
		return nil, nil
	}

	user, err := b.store.getUser(ctx, session.UserID)
	if err != nil {
		// A session whose user is gone is no session at all.
		return nil, nil
	}
	return user, session
}

// requireAuth rejects anonymous requests with an empty 403.
func (b *Blog) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAuthenticated(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// login binds a new session for user to the client, replacing any session
// the request arrived with. The CSRF token rotates with it.
func (b *Blog) login(w http.ResponseWriter, r *http.Request, user *User) error {
	ctx := r.Context()

	if id := identityFrom(r); id != nil && id.session != nil {
		if err := b.store.deleteSession(ctx, id.session.Token); err != nil {
			return err
		}
	}

	session, err := b.store.createSession(ctx, user.ID, b.cfg.SessionTTL)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   b.cfg.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	b.setCSRFCookie(w, session.CSRFToken)
	return nil
}

// logout drops the session, if any, and hands out a fresh anonymous CSRF
// token. Calling it without a session is harmless.
func (b *Blog) logout(w http.ResponseWriter, r *http.Request) error {
	if id := identityFrom(r); id != nil && id.session != nil {
		if err := b.store.deleteSession(r.Context(), id.session.Token); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   b.cfg.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})

	token, err := generateToken()
	if err != nil {
		return err
	}
	b.setCSRFCookie(w, token)
	return nil
}

// CSRF protection using the double-submit cookie pattern. Logged-in
// clients must additionally present the token stored with their session.

func (b *Blog) setCSRFCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false, // the client echoes it back in a header
		Secure:   b.cfg.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func getCSRFCookie(r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// expectedCSRFToken is the token the request has to echo: the session's
// token when logged in, the cookie otherwise.
func expectedCSRFToken(r *http.Request) string {
	if id := identityFrom(r); id != nil && id.session != nil {
		return id.session.CSRFToken
	}
	return getCSRFCookie(r)
}

func validateCSRF(r *http.Request) bool {
	cookieToken := getCSRFCookie(r)
	headerToken := r.Header.Get(csrfHeaderName)
	expected := expectedCSRFToken(r)

	if cookieToken == "" || headerToken == "" || expected == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) == 1 &&
		subtle.ConstantTimeCompare([]byte(headerToken), []byte(expected)) == 1
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// csrf makes sure every response carries a CSRF cookie and rejects unsafe
// requests whose header does not match it. Must run after authenticate.
func (b *Blog) csrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := getCSRFCookie(r); c == "" || c != expectedCSRFToken(r) {
			b.ensureCSRFCookie(w, r)
		}

		if !isSafeMethod(r.Method) && !validateCSRF(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ensureCSRFCookie sets the cookie to the session's token, or to a new
// random token for anonymous clients without one.
func (b *Blog) ensureCSRFCookie(w http.ResponseWriter, r *http.Request) {
	token := expectedCSRFToken(r)
	if token == "" {
		var err error
		if token, err = generateToken(); err != nil {
			loggerFrom(r.Context()).Error("generating csrf token", zap.Error(err))
			return
		}
	}
	b.setCSRFCookie(w, token)
}
