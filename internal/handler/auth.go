package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/client"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/middleware"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/upload"
)

type AuthHandler struct {
	base
}

func NewAuthHandler(sessions *middleware.Sessions) *AuthHandler {
	return &AuthHandler{base: base{sessions: sessions}}
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type signupForm struct {
	Name                 string `form:"name" binding:"required,min=2"`
	Email                string `form:"email" binding:"required,email"`
	Password             string `form:"password" binding:"required,min=8"`
	PasswordConfirmation string `form:"password_confirmation" binding:"required,eqfield=Password"`
}

var loginFailed = &upload.Alert{
	Type:    upload.AlertError,
	Title:   "Login failed",
	Message: "Invalid email or password. Please try again.",
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.CurrentViewer(c).LoggedIn() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Next":  safeNext(c.Query("next"), ""),
	})
}

// Login exchanges the credentials for a backend token and starts the
// visitor's session.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.loginError(c, http.StatusUnprocessableEntity, form, loginFailed)
		return
	}

	au, err := h.sessions.API.Login(c.Request.Context(), model.Credentials{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		if errors.Is(err, client.ErrNetwork) || errors.Is(err, client.ErrInternalServer) {
			f := Describe(err)
			h.loginError(c, f.Status, form, &upload.Alert{Type: upload.AlertError, Title: "Login failed", Message: f.Message})
			return
		}
		logger.Info("login rejected", "email", form.Email, "error", err)
		h.loginError(c, http.StatusUnauthorized, form, loginFailed)
		return
	}

	if _, err := h.sessions.Start(c, au); err != nil {
		h.fail(c, err)
		return
	}
	logger.Info("user logged in", "user_id", au.User.ID)
	c.Redirect(http.StatusFound, safeNext(form.Next, "/"))
}

func (h *AuthHandler) loginError(c *gin.Context, status int, form loginForm, alert *upload.Alert) {
	render(c, status, "login.html", gin.H{
		"Title": "Log in",
		"Alert": alert,
		"Email": form.Email,
		"Next":  safeNext(form.Next, ""),
	})
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	if middleware.CurrentViewer(c).LoggedIn() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "signup.html", gin.H{
		"Title":  "Sign up",
		"Form":   signupForm{},
		"Errors": map[string]string{},
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusUnprocessableEntity, "signup.html", gin.H{
			"Title":  "Sign up",
			"Form":   form,
			"Errors": signupErrors(err),
		})
		return
	}

	au, err := h.sessions.API.Register(c.Request.Context(), model.SignUp{
		Name:                 strings.TrimSpace(form.Name),
		Email:                strings.TrimSpace(form.Email),
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
	})
	if err != nil {
		f := Describe(err)
		render(c, f.Status, "signup.html", gin.H{
			"Title":  "Sign up",
			"Form":   form,
			"Errors": map[string]string{},
			"Alert":  &upload.Alert{Type: upload.AlertError, Title: "Registration failed", Message: f.Message},
		})
		return
	}

	if _, err := h.sessions.Start(c, au); err != nil {
		h.fail(c, err)
		return
	}
	logger.Info("user registered", "user_id", au.User.ID)
	c.Redirect(http.StatusFound, "/")
}

// Logout revokes the backend token when possible and always ends the local
// session.
func (h *AuthHandler) Logout(c *gin.Context) {
	v := middleware.CurrentViewer(c)
	if v.Session != nil {
		if err := v.API.Logout(c.Request.Context()); err != nil {
			logger.Warn("backend logout failed", "error", err)
		}
		h.sessions.Forget(c, v.Session.ID)
	}
	c.Redirect(http.StatusFound, "/")
}

var signupMessages = map[string]string{
	"Name":                 "Name must be at least 2 characters.",
	"Email":                "Please enter a valid email address.",
	"Password":             "Password must be at least 8 characters.",
	"PasswordConfirmation": "Passwords do not match.",
}

var signupFields = map[string]string{
	"Name":                 "name",
	"Email":                "email",
	"Password":             "password",
	"PasswordConfirmation": "password_confirmation",
}

func signupErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["name"] = "Please check the form and try again."
		return out
	}
	for _, fe := range verrs {
		if field, ok := signupFields[fe.Field()]; ok {
			out[field] = signupMessages[fe.Field()]
		}
	}
	return out
}
