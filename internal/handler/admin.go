package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/cache"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/client"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/middleware"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/upload"
)

// Report status filter values of the admin reports table.
const (
	StatusAll          = "all"
	StatusValidated    = "validated"
	StatusNotValidated = "not-validated"
)

type AdminHandler struct {
	base
	lists *cache.Lists
}

func NewAdminHandler(sessions *middleware.Sessions, lists *cache.Lists) *AdminHandler {
	return &AdminHandler{base: base{sessions: sessions}, lists: lists}
}

func api(c *gin.Context) *client.Client {
	return middleware.CurrentViewer(c).API
}

// FilterReports keeps the reports matching the status filter whose title or
// author contains q, ignoring case.
func FilterReports(reports []model.Report, status, q string) []model.Report {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]model.Report, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		switch status {
		case StatusValidated:
			if !r.Validated {
				continue
			}
		case StatusNotValidated:
			if r.Validated {
				continue
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Title), q) && !strings.Contains(strings.ToLower(r.AuthorName()), q) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// FilterUsers keeps the users with the given role and sector; empty
// values match everything.
func FilterUsers(users []model.User, role, sector string) []model.User {
	out := make([]model.User, 0, len(users))
	for i := range users {
		u := &users[i]
		if role != "" && u.Role != role {
			continue
		}
		if sector != "" && u.SectorName() != sector {
			continue
		}
		out = append(out, *u)
	}
	return out
}

func (h *AdminHandler) Reports(c *gin.Context) {
	reports, err := api(c).ListReports(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	status := c.DefaultQuery("status", StatusAll)
	q := c.Query("q")
	render(c, http.StatusOK, "admin_reports.html", gin.H{
		"Title":   "Reports",
		"Reports": FilterReports(reports, status, q),
		"Status":  status,
		"Query":   q,
	})
}

// ValidateReport sets the validated flag. Script requests get the
// re-rendered table row back; plain form posts are redirected.
func (h *AdminHandler) ValidateReport(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}

	validated := c.PostForm("validated") == "true"
	report, err := api(c).ValidateReport(c.Request.Context(), id, validated)
	if err != nil {
		if isFetch(c) {
			h.forgetIfUnauthorized(c, err)
			f := Describe(err)
			c.String(f.Status, f.Message)
			return
		}
		h.fail(c, err)
		return
	}
	logger.Info("report validation changed", "report_id", id, "validated", report.Validated)

	if !isFetch(c) {
		c.Redirect(http.StatusFound, "/admin/reports")
		return
	}
	if report.User == nil {
		if full, err := api(c).GetReport(c.Request.Context(), id); err == nil {
			report = full
		}
	}
	c.HTML(http.StatusOK, "report_row", report)
}

func (h *AdminHandler) Users(c *gin.Context) {
	ctx := c.Request.Context()
	q := strings.TrimSpace(c.Query("q"))

	var users []model.User
	var err error
	if q != "" {
		users, err = api(c).SearchUsers(ctx, q)
	} else {
		users, err = api(c).ListUsers(ctx)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	role, sector := c.Query("role"), c.Query("sector")
	render(c, http.StatusOK, "admin_users.html", gin.H{
		"Title":   "Users",
		"Users":   FilterUsers(users, role, sector),
		"Query":   q,
		"Role":    role,
		"Sector":  sector,
		"Roles":   model.Roles,
		"Sectors": h.sectorList(ctx),
	})
}

func (h *AdminHandler) User(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}
	h.renderUser(c, id, http.StatusOK, nil)
}

func (h *AdminHandler) renderUser(c *gin.Context, id int64, status int, alert *upload.Alert) {
	ctx := c.Request.Context()
	user, err := api(c).GetUser(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	reports, err := api(c).UserReports(ctx, id)
	if err != nil {
		logger.Warn("user reports unavailable", "user_id", id, "error", err)
		reports = []model.Report{}
	}

	render(c, status, "admin_user.html", gin.H{
		"Title":   user.Name,
		"User":    user,
		"Reports": reports,
		"Roles":   model.Roles,
		"Sectors": h.sectorList(ctx),
		"Alert":   alert,
	})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}

	in := model.UpdateUser{
		Name:  strings.TrimSpace(c.PostForm("name")),
		Email: strings.TrimSpace(c.PostForm("email")),
		Role:  c.PostForm("role"),
	}
	if raw := c.PostForm("sector_id"); raw != "" {
		if sid, err := strconv.ParseInt(raw, 10, 64); err == nil {
			in.SectorID = &sid
		}
	}

	user, err := api(c).UpdateUser(c.Request.Context(), id, in)
	if err != nil {
		h.forgetIfUnauthorized(c, err)
		f := Describe(err)
		h.renderUser(c, id, f.Status, &upload.Alert{Type: upload.AlertError, Title: "Update failed", Message: f.Message})
		return
	}

	if v := middleware.CurrentViewer(c); v.User != nil && v.User.ID == user.ID {
		h.sessions.Refresh(c, user)
	}
	h.renderUser(c, id, http.StatusOK, &upload.Alert{Type: upload.AlertSuccess, Title: "User updated", Message: "The changes were saved."})
}

func (h *AdminHandler) UpdatePassword(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}

	in := model.UpdatePassword{
		NewPassword:     c.PostForm("new_password"),
		ConfirmPassword: c.PostForm("confirm_password"),
	}
	if len(in.NewPassword) < 8 || in.NewPassword != in.ConfirmPassword {
		h.renderUser(c, id, http.StatusUnprocessableEntity, &upload.Alert{
			Type:    upload.AlertError,
			Title:   "Password not changed",
			Message: "The password must have at least 8 characters and both entries must match.",
		})
		return
	}

	if _, err := api(c).UpdateUserPassword(c.Request.Context(), id, in); err != nil {
		h.forgetIfUnauthorized(c, err)
		f := Describe(err)
		h.renderUser(c, id, f.Status, &upload.Alert{Type: upload.AlertError, Title: "Password not changed", Message: f.Message})
		return
	}
	h.renderUser(c, id, http.StatusOK, &upload.Alert{Type: upload.AlertSuccess, Title: "Password updated", Message: "The new password is active."})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}
	if err := api(c).DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	logger.Info("user deleted", "user_id", id)
	c.Redirect(http.StatusFound, "/admin/users")
}

type nameItem struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// nameKind describes one of the admin managed name lists.
type nameKind struct {
	path       string
	title      string
	list       func(ctx context.Context, c *client.Client) ([]nameItem, error)
	create     func(ctx context.Context, c *client.Client, name string) error
	update     func(ctx context.Context, c *client.Client, id int64, name string) error
	remove     func(ctx context.Context, c *client.Client, id int64) error
	invalidate func(l *cache.Lists, ctx context.Context)
}

var sectorKind = nameKind{
	path:  "sectors",
	title: "Sectors",
	list: func(ctx context.Context, c *client.Client) ([]nameItem, error) {
		sectors, err := c.ListSectors(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]nameItem, 0, len(sectors))
		for _, s := range sectors {
			items = append(items, nameItem{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt})
		}
		return items, nil
	},
	create: func(ctx context.Context, c *client.Client, name string) error {
		_, err := c.CreateSector(ctx, model.SectorInput{Name: name})
		return err
	},
	update: func(ctx context.Context, c *client.Client, id int64, name string) error {
		_, err := c.UpdateSector(ctx, id, model.SectorInput{Name: name})
		return err
	},
	remove: func(ctx context.Context, c *client.Client, id int64) error {
		return c.DeleteSector(ctx, id)
	},
	invalidate: (*cache.Lists).InvalidateSectors,
}

var tagKind = nameKind{
	path:  "tags",
	title: "Tags",
	list: func(ctx context.Context, c *client.Client) ([]nameItem, error) {
		tags, err := c.ListTags(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]nameItem, 0, len(tags))
		for _, t := range tags {
			items = append(items, nameItem{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt})
		}
		return items, nil
	},
	create: func(ctx context.Context, c *client.Client, name string) error {
		_, err := c.CreateTag(ctx, model.TagInput{Name: name})
		return err
	},
	update: func(ctx context.Context, c *client.Client, id int64, name string) error {
		_, err := c.UpdateTag(ctx, id, model.TagInput{Name: name})
		return err
	},
	remove: func(ctx context.Context, c *client.Client, id int64) error {
		return c.DeleteTag(ctx, id)
	},
	invalidate: (*cache.Lists).InvalidateTags,
}

func (h *AdminHandler) Sectors(c *gin.Context) { h.names(c, sectorKind, http.StatusOK, nil) }
func (h *AdminHandler) Tags(c *gin.Context)    { h.names(c, tagKind, http.StatusOK, nil) }

func (h *AdminHandler) CreateSector(c *gin.Context) { h.createName(c, sectorKind) }
func (h *AdminHandler) CreateTag(c *gin.Context)    { h.createName(c, tagKind) }

func (h *AdminHandler) UpdateSector(c *gin.Context) { h.updateName(c, sectorKind) }
func (h *AdminHandler) UpdateTag(c *gin.Context)    { h.updateName(c, tagKind) }

func (h *AdminHandler) DeleteSector(c *gin.Context) { h.deleteName(c, sectorKind) }
func (h *AdminHandler) DeleteTag(c *gin.Context)    { h.deleteName(c, tagKind) }

func (h *AdminHandler) names(c *gin.Context, kind nameKind, status int, alert *upload.Alert) {
	items, err := kind.list(c.Request.Context(), api(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	render(c, status, "admin_names.html", gin.H{
		"Title": kind.title,
		"Kind":  kind.path,
		"Items": items,
		"Alert": alert,
	})
}

func (h *AdminHandler) createName(c *gin.Context, kind nameKind) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		h.names(c, kind, http.StatusUnprocessableEntity, &upload.Alert{Type: upload.AlertError, Title: "Missing name", Message: "Please enter a name."})
		return
	}
	h.afterChange(c, kind, kind.create(c.Request.Context(), api(c), name))
}

func (h *AdminHandler) updateName(c *gin.Context, kind nameKind) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		h.names(c, kind, http.StatusUnprocessableEntity, &upload.Alert{Type: upload.AlertError, Title: "Missing name", Message: "Please enter a name."})
		return
	}
	h.afterChange(c, kind, kind.update(c.Request.Context(), api(c), id, name))
}

func (h *AdminHandler) deleteName(c *gin.Context, kind nameKind) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}
	h.afterChange(c, kind, kind.remove(c.Request.Context(), api(c), id))
}

func (h *AdminHandler) afterChange(c *gin.Context, kind nameKind, err error) {
	if err != nil {
		h.forgetIfUnauthorized(c, err)
		f := Describe(err)
		if f.Status == http.StatusUnauthorized {
			c.Redirect(http.StatusFound, "/login?next=/admin/"+kind.path)
			return
		}
		h.names(c, kind, f.Status, &upload.Alert{Type: upload.AlertError, Title: "Change failed", Message: f.Message})
		return
	}
	kind.invalidate(h.lists, c.Request.Context())
	c.Redirect(http.StatusFound, "/admin/"+kind.path)
}

func (h *AdminHandler) sectorList(ctx context.Context) []model.Sector {
	sectors, err := h.lists.Sectors(ctx)
	if err != nil {
		logger.Warn("sector list unavailable", "error", err)
		return []model.Sector{}
	}
	return sectors
}
