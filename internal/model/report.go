package model

import "time"

type Report struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Preview     string    `json:"preview"`
	URL         string    `json:"url"`
	Validated   bool      `json:"validated"`
	User        *User     `json:"user,omitempty"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthorName returns the display name of the report's author.
func (r *Report) AuthorName() string {
	if r.User == nil || r.User.Name == "" {
		return "Unknown Author"
	}
	return r.User.Name
}

// OwnedBy reports whether u authored the report.
func (r *Report) OwnedBy(u *User) bool {
	return u != nil && r.User != nil && r.User.ID == u.ID
}

// UpdateReport carries the editable metadata of a report.
type UpdateReport struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Validated   *bool   `json:"validated,omitempty"`
}

// SearchParams is the visitor's current query. It is rebuilt from the page URL
// on every navigation.
type SearchParams struct {
	Keywords string
	Tags     []string
	Page     int
	Sector   string
	FromDate string
	ToDate   string
}

// SearchResult is one page of search results as returned by the backend.
type SearchResult struct {
	Reports        []Report `json:"reports"`
	CurrentPage    int      `json:"currentPage"`
	HasMoreReports bool     `json:"hasMoreReports"`
}
