package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/middleware"
)

type ReportHandler struct {
	base
}

func NewReportHandler(sessions *middleware.Sessions) *ReportHandler {
	return &ReportHandler{base: base{sessions: sessions}}
}

func (h *ReportHandler) Show(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}

	v := middleware.CurrentViewer(c)
	report, err := v.API.GetReport(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	render(c, http.StatusOK, "report.html", gin.H{
		"Title":     report.Title,
		"Report":    report,
		"CanDelete": v.IsAdmin() || report.OwnedBy(v.User),
	})
}

// Download streams the PDF from the backend to the visitor.
func (h *ReportHandler) Download(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}

	body, contentType, err := middleware.CurrentViewer(c).API.DownloadReport(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/pdf"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%d.pdf"`, id))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		logger.Warn("download interrupted", "report_id", id, "error", err)
	}
}

// Delete removes a report. The backend decides whether the visitor may.
func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		notFound(c)
		return
	}

	if err := middleware.CurrentViewer(c).API.DeleteReport(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	logger.Info("report deleted", "report_id", id, "by", middleware.CurrentViewer(c).User.ID)
	c.Redirect(http.StatusFound, safeNext(c.PostForm("next"), "/reports/search"))
}
