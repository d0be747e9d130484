package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/cache"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/middleware"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/search"
)

type SearchHandler struct {
	base
	views *search.Registry
	lists *cache.Lists
}

func NewSearchHandler(sessions *middleware.Sessions, views *search.Registry, lists *cache.Lists) *SearchHandler {
	return &SearchHandler{base: base{sessions: sessions}, views: views, lists: lists}
}

// Page renders the search page for the query in the URL and registers a
// new search view that the page's script keeps talking to.
func (h *SearchHandler) Page(c *gin.Context) {
	v := middleware.CurrentViewer(c)
	params := search.Decode(c.Request.URL.Query())

	ctrl := search.NewController(v.API)
	err := ctrl.Open(c.Request.Context(), params)
	middleware.RecordSearch(params.Page > 1, err)
	if err != nil {
		logger.Warn("search failed", "query", params.Keywords, "error", err)
		h.forgetIfUnauthorized(c, err)
	}
	id := h.views.Add(v.SessionID(), ctrl)

	data := h.resultsData(ctrl.Snapshot(), c.Query("sort"), c.Query("mode"))
	data["Title"] = "Search reports"
	data["ViewID"] = id
	data["Params"] = params
	data["TagNames"] = h.tagNames(c)
	data["Sectors"] = h.sectors(c)
	render(c, http.StatusOK, "search.html", data)
}

// Submit runs a new search in an existing view and answers with the
// re-rendered results. X-Search-Location carries the URL the page pushes
// onto the history.
func (h *SearchHandler) Submit(c *gin.Context) {
	ctrl, ok := h.view(c, c.PostForm("view"))
	if !ok {
		return
	}

	params := model.SearchParams{
		Keywords: c.PostForm("query"),
		Tags:     c.PostFormArray("tags"),
		Sector:   c.PostForm("sector"),
		FromDate: c.PostForm("fromDate"),
		ToDate:   c.PostForm("toDate"),
	}
	location, err := ctrl.Submit(c.Request.Context(), params)
	middleware.RecordSearch(false, err)
	if err != nil {
		h.forgetIfUnauthorized(c, err)
	}

	c.Header("X-Search-Location", location)
	h.renderResults(c, ctrl, c.PostForm("sort"), c.PostForm("mode"))
}

// More loads the next page of a view. 204 means nothing was fetched: a
// fetch is already running, the backend said there is no more, or the
// last fetch failed and waits for a retry.
func (h *SearchHandler) More(c *gin.Context) {
	ctrl, ok := h.view(c, c.Query("view"))
	if !ok {
		return
	}

	loaded, err := ctrl.LoadNextPage(c.Request.Context())
	if !loaded && err == nil {
		c.Status(http.StatusNoContent)
		return
	}
	middleware.RecordSearch(true, err)
	if err != nil {
		logger.Warn("search page failed", "error", err)
		h.forgetIfUnauthorized(c, err)
	}
	h.renderResults(c, ctrl, c.Query("sort"), c.Query("mode"))
}

// Results re-renders the gathered results, used after a sort change.
func (h *SearchHandler) Results(c *gin.Context) {
	ctrl, ok := h.view(c, c.Query("view"))
	if !ok {
		return
	}
	h.renderResults(c, ctrl, c.Query("sort"), c.Query("mode"))
}

func (h *SearchHandler) view(c *gin.Context, id string) (*search.Controller, bool) {
	ctrl, ok := h.views.Get(id, middleware.CurrentViewer(c).SessionID())
	if !ok {
		c.String(http.StatusNotFound, "search view expired")
		return nil, false
	}
	return ctrl, true
}

func (h *SearchHandler) renderResults(c *gin.Context, ctrl *search.Controller, sort, mode string) {
	c.HTML(http.StatusOK, "results", h.resultsData(ctrl.Snapshot(), sort, mode))
}

func (h *SearchHandler) resultsData(st search.State, sort, mode string) gin.H {
	order := search.ParseSortOrder(sort)
	if mode != "list" {
		mode = "grid"
	}
	data := gin.H{
		"Reports": search.Sort(st.Results, order),
		"HasMore": st.HasMore,
		"Sort":    string(order),
		"Mode":    mode,
		"Error":   "",
	}
	if st.Err != nil {
		// The view stays still until the user retries.
		data["Error"] = "Failed to load reports. " + Message(st.Err)
		data["HasMore"] = false
	}
	return data
}

func (h *SearchHandler) tagNames(c *gin.Context) []string {
	names, err := h.lists.TagNames(c.Request.Context())
	if err != nil {
		logger.Warn("tag list unavailable", "error", err)
		return []string{}
	}
	return names
}

func (h *SearchHandler) sectors(c *gin.Context) []model.Sector {
	sectors, err := h.lists.Sectors(c.Request.Context())
	if err != nil {
		logger.Warn("sector list unavailable", "error", err)
		return []model.Sector{}
	}
	return sectors
}
