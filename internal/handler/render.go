package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/client"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/middleware"
)

// base carries what every page handler needs to render and to react to a
// rejected token.
type base struct {
	sessions *middleware.Sessions
}

func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Viewer"] = middleware.CurrentViewer(c)
	c.HTML(status, name, data)
}

// forgetIfUnauthorized drops the visitor's session when the backend no
// longer accepts its token.
func (b *base) forgetIfUnauthorized(c *gin.Context, err error) {
	if !errors.Is(err, client.ErrUnauthorized) {
		return
	}
	if v := middleware.CurrentViewer(c); v.Session != nil {
		b.sessions.Forget(c, v.Session.ID)
	}
}

// fail renders the error page for err.
func (b *base) fail(c *gin.Context, err error) {
	b.forgetIfUnauthorized(c, err)

	f := Describe(err)
	if f.Status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
	} else {
		logger.Debug("request rejected", "path", c.FullPath(), "error", err)
	}
	render(c, f.Status, "error.html", gin.H{
		"Title":   f.Kind,
		"Kind":    f.Kind,
		"Message": f.Message,
		"Status":  f.Status,
	})
}

func notFound(c *gin.Context) {
	f := Describe(client.ErrNotFound)
	render(c, f.Status, "error.html", gin.H{
		"Title":   f.Kind,
		"Kind":    f.Kind,
		"Message": f.Message,
		"Status":  f.Status,
	})
}

// Forbidden is the response of admin pages for non administrators.
func Forbidden(c *gin.Context) {
	f := Describe(client.ErrForbidden)
	render(c, f.Status, "error.html", gin.H{
		"Title":   f.Kind,
		"Kind":    f.Kind,
		"Message": "This page is reserved for administrators.",
		"Status":  f.Status,
	})
}

// TooManyRequests is the response of rate limited form posts.
func TooManyRequests(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.RecordRateLimited(action)
		render(c, http.StatusTooManyRequests, "error.html", gin.H{
			"Title":   "Too Many Requests",
			"Kind":    "Too Many Requests",
			"Message": "You are doing this too often. Please wait a moment and try again.",
			"Status":  http.StatusTooManyRequests,
		})
	}
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// safeNext keeps redirects on this site.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func isFetch(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "fetch"
}
