package search

import (
	"sort"
	"strings"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortTitleAsc  SortOrder = "title-asc"
	SortTitleDesc SortOrder = "title-desc"
)

// ParseSortOrder falls back to newest first for unknown values.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortOldest, SortTitleAsc, SortTitleDesc:
		return SortOrder(s)
	default:
		return SortNewest
	}
}

// Sort returns a sorted copy of reports; the input is not modified.
func Sort(reports []model.Report, order SortOrder) []model.Report {
	out := make([]model.Report, len(reports))
	copy(out, reports)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortTitleAsc:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortTitleDesc:
			return strings.ToLower(a.Title) > strings.ToLower(b.Title)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return out
}
