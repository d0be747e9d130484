package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Templates parses the page templates. storageURL is the public root that
// report previews and PDFs are served from.
func Templates(storageURL string) (*template.Template, error) {
	return template.New("pages").Funcs(Funcs(storageURL)).ParseFS(templateFS, "templates/*.html")
}

// Static serves the scripts and stylesheet under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Placeholder is shown for reports without a preview image.
const Placeholder = "/static/placeholder.svg"

// StorageURL resolves a backend file path against the public storage root.
// Absolute URLs are kept as they are.
func StorageURL(root, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return root + strings.TrimLeft(path, "/")
}

func Funcs(storageURL string) template.FuncMap {
	return template.FuncMap{
		"storage": func(path string) string {
			if path == "" {
				return Placeholder
			}
			return StorageURL(storageURL, path)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"has": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
	}
}
