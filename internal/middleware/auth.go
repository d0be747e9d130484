package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/auth"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/client"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

const viewerKey = "viewer"

// Viewer is the identity of the current request. API is the backend client
// to use on the visitor's behalf; it carries the session token when there
// is one.
type Viewer struct {
	Session *auth.Session
	User    *model.User
	API     *client.Client
}

func (v *Viewer) LoggedIn() bool {
	return v.User != nil
}

func (v *Viewer) IsAdmin() bool {
	return v.User != nil && v.User.IsAdmin()
}

// SessionID is the owner key for per-visitor server state. Anonymous
// visitors share the empty key.
func (v *Viewer) SessionID() string {
	if v.Session == nil {
		return ""
	}
	return v.Session.ID
}

// Sessions bundles what the identity middleware and the login handlers need.
type Sessions struct {
	Store  auth.Store
	API    *client.Client
	Secure bool
}

// Identity resolves the visitor once per request: the session cookie is
// looked up in the store and, when the record has no user yet, GET /user is
// called once and the answer cached in the session. Everything rendered
// later in the request reads the same Viewer.
func Identity(s *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := &Viewer{API: s.API}
		c.Set(viewerKey, viewer)

		id, err := c.Cookie(auth.SessionCookie)
		if err != nil || id == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		sess, err := s.Store.Get(ctx, id)
		if err != nil {
			logger.Warn("session lookup failed", "error", err)
			c.Next()
			return
		}
		if sess == nil {
			s.ClearCookie(c)
			c.Next()
			return
		}

		api := s.API.WithToken(sess.Token)
		if sess.User == nil {
			user, err := api.CurrentUser(ctx)
			switch {
			case errors.Is(err, client.ErrUnauthorized):
				s.Forget(c, sess.ID)
				c.Next()
				return
			case err != nil:
				logger.Warn("identity fetch failed", "session", sess.ID, "error", err)
			default:
				sess.User = user
				if err := s.Store.Save(ctx, sess); err != nil {
					logger.Warn("session save failed", "error", err)
				}
			}
		}

		viewer.Session = sess
		viewer.User = sess.User
		viewer.API = api
		c.Next()
	}
}

// Start creates a session for a freshly authenticated visitor and sets the
// cookie.
func (s *Sessions) Start(c *gin.Context, au *model.AuthUser) (*auth.Session, error) {
	user := au.User
	sess, err := s.Store.Create(c.Request.Context(), au.Token, &user)
	if err != nil {
		return nil, err
	}
	s.setCookie(c, sess.ID, int(time.Until(sess.ExpiresAt).Seconds()))
	return sess, nil
}

// Refresh replaces the cached identity of the current session.
func (s *Sessions) Refresh(c *gin.Context, user *model.User) {
	v := CurrentViewer(c)
	if v.Session == nil {
		return
	}
	v.Session.User = user
	v.User = user
	if err := s.Store.Save(c.Request.Context(), v.Session); err != nil {
		logger.Warn("session save failed", "error", err)
	}
}

// Forget drops the session and its cookie. The current request continues
// as anonymous.
func (s *Sessions) Forget(c *gin.Context, id string) {
	if err := s.Store.Delete(c.Request.Context(), id); err != nil {
		logger.Warn("session delete failed", "error", err)
	}
	s.ClearCookie(c)
	if v, ok := c.Get(viewerKey); ok {
		vw := v.(*Viewer)
		vw.Session, vw.User, vw.API = nil, nil, s.API
	}
}

func (s *Sessions) ClearCookie(c *gin.Context) {
	s.setCookie(c, "", -1)
}

func (s *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, value, maxAge, "/", "", s.Secure, true)
}

// CurrentViewer never returns nil; without the Identity middleware the
// visitor is anonymous and has no API client.
func CurrentViewer(c *gin.Context) *Viewer {
	if v, ok := c.Get(viewerKey); ok {
		return v.(*Viewer)
	}
	return &Viewer{}
}

// RequireAuth sends anonymous visitors to the login page, remembering where
// they were going.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentViewer(c).LoggedIn() {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin lets administrators through. Other logged in users get the
// forbidden response; anonymous visitors are sent to login.
func RequireAdmin(forbidden gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := CurrentViewer(c)
		if !v.LoggedIn() {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !v.IsAdmin() {
			forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
