package upload

import (
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	AlertError   = "error"
	AlertSuccess = "success"
)

// Alert is the banner shown above the upload form.
type Alert struct {
	Type    string
	Title   string
	Message string
}

var (
	SuccessAlert = Alert{
		Type:    AlertSuccess,
		Title:   "Report Uploaded Successfully!",
		Message: "Your report has been uploaded and is pending validation.",
	}
	FailureAlert = Alert{
		Type:    AlertError,
		Title:   "Upload Failed",
		Message: "There was a problem uploading your report. Please try again.",
	}
)

// Form is a submitted upload form. Files are nil when the visitor did not
// pick one.
type Form struct {
	Title       string
	Description string
	Tags        []string
	PDF         *multipart.FileHeader
	Preview     *multipart.FileHeader
}

// Validate checks the required fields in display order and returns the
// alert for the first problem, or nil when the form can be sent.
func (f *Form) Validate() *Alert {
	if strings.TrimSpace(f.Title) == "" {
		return &Alert{Type: AlertError, Title: "Missing Title", Message: "Please enter a title for your report"}
	}
	if f.PDF == nil {
		return &Alert{Type: AlertError, Title: "Missing PDF File", Message: "Please select a PDF file to upload"}
	}
	if f.Preview == nil {
		return &Alert{Type: AlertError, Title: "Missing Preview Image", Message: "Please select a preview image for your report"}
	}
	if ContentType(f.PDF) != "application/pdf" {
		return &Alert{Type: AlertError, Title: "Invalid PDF File", Message: "The report file must be a PDF document"}
	}
	if !strings.HasPrefix(ContentType(f.Preview), "image/") {
		return &Alert{Type: AlertError, Title: "Invalid Preview Image", Message: "The preview must be an image"}
	}
	return nil
}

// ContentType returns the media type the browser declared for fh, falling
// back to the file extension.
func ContentType(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
	}
	if mt, _, err := mime.ParseMediaType(mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))); err == nil {
		return mt
	}
	return "application/octet-stream"
}
