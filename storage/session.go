package storage

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// SessionName is the cookie session that backs visitor storage.
const SessionName = "folio_visitor"

// Session is a Store kept in the visitor's signed cookie session. Every
// write saves the session so the Set-Cookie header is in place before the
// handler writes the response body.
type Session struct {
	c    echo.Context
	sess *sessions.Session
}

// FromContext returns the visitor's Store for the request. It requires the
// echo-contrib session middleware; without it a throwaway Memory store is
// returned so rendering still works.
func FromContext(c echo.Context) Store {
	sess, err := session.Get(SessionName, c)
	if err != nil || sess == nil {
		return NewMemory()
	}
	return &Session{c: c, sess: sess}
}

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.sess.Values[key].(string)
	return v, ok
}

func (s *Session) Set(key, value string) error {
	s.sess.Values[key] = value
	return s.sess.Save(s.c.Request(), s.c.Response())
}

func (s *Session) Remove(key string) error {
	delete(s.sess.Values, key)
	return s.sess.Save(s.c.Request(), s.c.Response())
}

// NewCookieStore builds the cookie store used by the session middleware.
func NewCookieStore(secret string, secure bool, maxAge int) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   maxAge,
		Secure:   secure,
	}
	return store
}
