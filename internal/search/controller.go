package search

import (
	"context"
	"strings"
	"sync"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

// Fetcher runs one backend search. *client.Client satisfies it.
type Fetcher interface {
	Search(ctx context.Context, p model.SearchParams) (*model.SearchResult, error)
}

// State is a point-in-time copy of a controller.
type State struct {
	Params  model.SearchParams
	Results []model.Report
	HasMore bool
	Loading bool
	Err     error
}

// Controller owns one search view: the current query, the results gathered
// so far and whether another page may be requested. At most one fetch per
// generation is in flight; Submit starts a new generation and responses of
// older generations are dropped when they arrive.
type Controller struct {
	fetcher Fetcher

	mu         sync.Mutex
	params     model.SearchParams
	results    []model.Report
	hasMore    bool
	loading    bool
	err        error
	generation uint64
}

func NewController(fetcher Fetcher) *Controller {
	return &Controller{
		fetcher: fetcher,
		params:  model.SearchParams{Page: 1, Tags: []string{}},
		results: []model.Report{},
	}
}

// Open loads the view described by p, typically decoded from the page URL.
// Page 1 replaces the results, later pages are appended.
func (c *Controller) Open(ctx context.Context, p model.SearchParams) error {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.params = p
	c.loading = true
	c.mu.Unlock()

	return c.fetch(ctx, gen, p, p.Page-1)
}

// Submit starts a new search for p from page 1. It returns the page URL to
// push onto the browser history.
func (c *Controller) Submit(ctx context.Context, p model.SearchParams) (string, error) {
	p.Keywords = strings.TrimSpace(p.Keywords)
	p.Tags = NormalizeTags(p.Tags)
	p.Page = 1
	return URL(p), c.Open(ctx, p)
}

// LoadNextPage fetches and appends the next page. It returns false without
// touching the backend when a fetch is already running, the last response
// said there is nothing more, or the last fetch failed. A failed view only
// moves again through Open or Submit, so results of two different queries
// are never merged and a broken backend is not polled in a loop.
func (c *Controller) LoadNextPage(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.loading || !c.hasMore || c.err != nil {
		c.mu.Unlock()
		return false, nil
	}
	gen := c.generation
	prevPage := c.params.Page
	c.params.Page++
	p := c.params
	c.loading = true
	c.mu.Unlock()

	if err := c.fetch(ctx, gen, p, prevPage); err != nil {
		return false, err
	}
	return true, nil
}

// fetch runs the request for p and merges the response if gen is still
// current. On failure the page number goes back to prevPage so a retry
// through Open asks for the same page again.
func (c *Controller) fetch(ctx context.Context, gen uint64, p model.SearchParams, prevPage int) error {
	res, err := c.fetcher.Search(ctx, p)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return nil
	}
	c.loading = false

	if err != nil {
		c.err = err
		if p.Page > 1 {
			c.params.Page = prevPage
		}
		return err
	}

	c.err = nil
	if p.Page == 1 {
		c.results = append([]model.Report{}, res.Reports...)
	} else {
		c.results = append(c.results, res.Reports...)
	}
	c.hasMore = res.HasMoreReports
	return nil
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.params
	p.Tags = append([]string{}, c.params.Tags...)
	return State{
		Params:  p,
		Results: append([]model.Report{}, c.results...),
		HasMore: c.hasMore,
		Loading: c.loading,
		Err:     c.err,
	}
}
