package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/cache"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/client"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/middleware"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/upload"
)

// RedirectDelay is how long the success alert stays before the page moves
// on to the search page.
const RedirectDelay = 2 * time.Second

const (
	uploadLocation = "X-Upload-Location"
	afterUpload    = "/reports/search"
	loginAgain     = "/login?next=/upload"
)

type UploadHandler struct {
	base
	tracker *upload.Tracker
	lists   *cache.Lists
}

func NewUploadHandler(sessions *middleware.Sessions, tracker *upload.Tracker, lists *cache.Lists) *UploadHandler {
	return &UploadHandler{base: base{sessions: sessions}, tracker: tracker, lists: lists}
}

// Form shows the upload form. Students who already submitted a report are
// sent to the search page instead.
func (h *UploadHandler) Form(c *gin.Context) {
	v := middleware.CurrentViewer(c)
	if !v.IsAdmin() {
		reports, err := v.API.UserReports(c.Request.Context(), v.User.ID)
		if err != nil && !errors.Is(err, client.ErrNotFound) {
			h.fail(c, err)
			return
		}
		if len(reports) > 0 {
			c.Redirect(http.StatusFound, "/reports/search")
			return
		}
	}

	h.renderForm(c, http.StatusOK, &upload.Form{}, nil, h.tracker.New())
}

// Submit validates the form locally and forwards it to the backend. A
// validation failure never reaches the backend.
//
// The page's script posts with fetch so the chosen files stay in the form;
// those requests get the alert alone and X-Upload-Location names the page
// to move on to. Plain posts get the whole page back.
func (h *UploadHandler) Submit(c *gin.Context) {
	form := &upload.Form{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	for _, tag := range c.PostFormArray("tags") {
		form.Tags = upload.AddTag(form.Tags, tag)
	}
	form.PDF = formFile(c, "pdf")
	form.Preview = formFile(c, "preview")

	id := c.PostForm("upload_id")
	if id == "" {
		id = h.tracker.New()
	}

	if alert := form.Validate(); alert != nil {
		h.answer(c, http.StatusUnprocessableEntity, form, alert, id)
		return
	}

	report, err := h.send(c, form, id)
	h.tracker.Finish(id, err)
	middleware.RecordUpload(err)
	if err != nil {
		logger.Warn("upload failed", "user_id", middleware.CurrentViewer(c).User.ID, "error", err)
		if errors.Is(err, client.ErrUnauthorized) {
			h.forgetIfUnauthorized(c, err)
			if isFetch(c) {
				c.Header(uploadLocation, loginAgain)
				c.Status(http.StatusUnauthorized)
				return
			}
			c.Redirect(http.StatusFound, loginAgain)
			return
		}
		alert := upload.FailureAlert
		h.answer(c, http.StatusOK, form, &alert, id)
		return
	}

	logger.Info("report uploaded", "report_id", report.ID, "user_id", middleware.CurrentViewer(c).User.ID)
	alert := upload.SuccessAlert
	if isFetch(c) {
		c.Header(uploadLocation, afterUpload)
		c.HTML(http.StatusCreated, "alert", &alert)
		return
	}
	render(c, http.StatusCreated, "upload.html", gin.H{
		"Title":         "Upload",
		"Alert":         &alert,
		"Done":          true,
		"RedirectTo":    afterUpload,
		"RedirectAfter": int(RedirectDelay.Seconds()),
	})
}

// answer reports a failed submit, as an alert fragment for fetch requests
// or as the refilled form otherwise.
func (h *UploadHandler) answer(c *gin.Context, status int, form *upload.Form, alert *upload.Alert, id string) {
	if isFetch(c) {
		c.HTML(status, "alert", alert)
		return
	}
	h.renderForm(c, status, form, alert, id)
}

func (h *UploadHandler) send(c *gin.Context, form *upload.Form, id string) (*model.Report, error) {
	pdf, err := form.PDF.Open()
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer pdf.Close()

	preview, err := form.Preview.Open()
	if err != nil {
		return nil, fmt.Errorf("open preview: %w", err)
	}
	defer preview.Close()

	return middleware.CurrentViewer(c).API.CreateReport(c.Request.Context(), client.NewReport{
		Title:       form.Title,
		Description: form.Description,
		Tags:        form.Tags,
		PDF:         client.File{Name: form.PDF.Filename, ContentType: upload.ContentType(form.PDF), Data: pdf},
		Preview:     client.File{Name: form.Preview.Filename, ContentType: upload.ContentType(form.Preview), Data: preview},
	}, func(sent, total int64) {
		h.tracker.Update(id, sent, total)
	})
}

// Progress reports how much of an upload was forwarded to the backend.
func (h *UploadHandler) Progress(c *gin.Context) {
	p, ok := h.tracker.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown upload"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// Tags suggests tag names for the tag input.
func (h *UploadHandler) Tags(c *gin.Context) {
	names, err := h.lists.TagNames(c.Request.Context())
	if err != nil {
		logger.Warn("tag list unavailable", "error", err)
		names = []string{}
	}
	c.JSON(http.StatusOK, upload.SuggestTags(names, c.QueryArray("selected"), c.Query("q")))
}

func (h *UploadHandler) renderForm(c *gin.Context, status int, form *upload.Form, alert *upload.Alert, id string) {
	names, err := h.lists.TagNames(c.Request.Context())
	if err != nil {
		logger.Warn("tag list unavailable", "error", err)
		names = []string{}
	}
	render(c, status, "upload.html", gin.H{
		"Title":         "Upload",
		"Form":          form,
		"Alert":         alert,
		"UploadID":      id,
		"Suggestions":   upload.SuggestTags(names, form.Tags, ""),
		"RedirectDelay": int(RedirectDelay.Seconds()),
	})
}

func formFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil || fh.Size == 0 {
		return nil
	}
	return fh
}
