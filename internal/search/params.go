package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

// Query string keys of the search page URL.
const (
	keyQuery  = "query"
	keyTags   = "tags"
	keyPage   = "currentPage"
	keySector = "sector"
	keyFrom   = "fromDate"
	keyTo     = "toDate"
)

// Encode renders p as the search page query string. Empty filters and the
// first page are left out so that bookmarks stay short.
func Encode(p model.SearchParams) url.Values {
	q := url.Values{}
	if p.Keywords != "" {
		q.Set(keyQuery, p.Keywords)
	}
	for _, tag := range p.Tags {
		q.Add(keyTags, tag)
	}
	if p.Page > 1 {
		q.Set(keyPage, strconv.Itoa(p.Page))
	}
	if p.Sector != "" {
		q.Set(keySector, p.Sector)
	}
	if p.FromDate != "" {
		q.Set(keyFrom, p.FromDate)
	}
	if p.ToDate != "" {
		q.Set(keyTo, p.ToDate)
	}
	return q
}

// Decode rebuilds the search parameters from a page query string. A missing
// or invalid page number means page 1.
func Decode(q url.Values) model.SearchParams {
	p := model.SearchParams{
		Keywords: strings.TrimSpace(q.Get(keyQuery)),
		Page:     1,
		Sector:   q.Get(keySector),
		FromDate: q.Get(keyFrom),
		ToDate:   q.Get(keyTo),
	}
	if n, err := strconv.Atoi(q.Get(keyPage)); err == nil && n > 1 {
		p.Page = n
	}
	p.Tags = NormalizeTags(q[keyTags])
	return p
}

// URL returns the bookmarkable search page address for p.
func URL(p model.SearchParams) string {
	if enc := Encode(p).Encode(); enc != "" {
		return "/reports/search?" + enc
	}
	return "/reports/search"
}

// NormalizeTags trims tag names and drops blanks and duplicates, keeping the
// first occurrence order. Each value is one tag; names may contain commas.
func NormalizeTags(raw []string) []string {
	tags := []string{}
	seen := make(map[string]struct{}, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
