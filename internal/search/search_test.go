package search

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []model.SearchParams
	respond func(p model.SearchParams) (*model.SearchResult, error)
}

func (f *fakeFetcher) Search(_ context.Context, p model.SearchParams) (*model.SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	return f.respond(p)
}

func (f *fakeFetcher) pages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0, len(f.calls))
	for _, p := range f.calls {
		out = append(out, p.Page)
	}
	return out
}

func reports(ids ...int64) []model.Report {
	out := make([]model.Report, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Report{ID: id})
	}
	return out
}

func ids(rs []model.Report) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

// pagedFetcher serves two reports per page up to last.
func pagedFetcher(last int) *fakeFetcher {
	return &fakeFetcher{respond: func(p model.SearchParams) (*model.SearchResult, error) {
		base := int64(p.Page-1) * 2
		return &model.SearchResult{
			Reports:        reports(base+1, base+2),
			CurrentPage:    p.Page,
			HasMoreReports: p.Page < last,
		}, nil
	}}
}

func TestParamsRoundTrip(t *testing.T) {
	in := model.SearchParams{Keywords: "robotics", Tags: []string{"AI", "Vision"}, Page: 1}

	q := Encode(in)
	assert.Equal(t, "query=robotics&tags=AI&tags=Vision", q.Encode())

	out := Decode(q)
	assert.Equal(t, in, out)
}

func TestParamsRoundTripKeepsCommaInTag(t *testing.T) {
	in := model.SearchParams{Keywords: "compilers", Tags: []string{"C, C++", "Go"}, Page: 1}

	parsed, err := url.ParseQuery(Encode(in).Encode())
	require.NoError(t, err)
	assert.Equal(t, in, Decode(parsed))

	c := NewController(pagedFetcher(1))
	pageURL, err := c.Submit(context.Background(), in)
	require.NoError(t, err)
	u, err := url.Parse(pageURL)
	require.NoError(t, err)
	assert.Equal(t, c.Snapshot().Params, Decode(u.Query()))
	assert.Equal(t, []string{"C, C++", "Go"}, NormalizeTags([]string{"C, C++", " Go", "C, C++"}))
}

func TestParamsRoundTripWithFilters(t *testing.T) {
	in := model.SearchParams{
		Keywords: "bridge",
		Tags:     []string{},
		Page:     3,
		Sector:   "Genie Civil",
		FromDate: "2024-01-01",
		ToDate:   "2024-06-30",
	}
	parsed, err := url.ParseQuery(Encode(in).Encode())
	require.NoError(t, err)
	assert.Equal(t, in, Decode(parsed))
}

func TestDecodeDefaults(t *testing.T) {
	p := Decode(url.Values{
		"currentPage": {"zero"},
		"tags":        {"AI", " Vision ", " AI ", ""},
	})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, "", p.Keywords)
	assert.Equal(t, []string{"AI", "Vision"}, p.Tags)
	assert.Equal(t, "/reports/search", URL(model.SearchParams{Page: 1}))
}

func TestSubmitReplacesResults(t *testing.T) {
	f := pagedFetcher(5)
	c := NewController(f)

	_, err := c.Submit(context.Background(), model.SearchParams{Keywords: "robot"})
	require.NoError(t, err)
	_, err = c.LoadNextPage(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Snapshot().Results, 4)

	loc, err := c.Submit(context.Background(), model.SearchParams{Keywords: "drone", Tags: []string{"IoT"}})
	require.NoError(t, err)

	st := c.Snapshot()
	assert.Equal(t, "/reports/search?query=drone&tags=IoT", loc)
	assert.Equal(t, []int64{1, 2}, ids(st.Results))
	assert.Equal(t, 1, st.Params.Page)
	assert.Equal(t, []int{1, 2, 1}, f.pages())
}

func TestScrollAppendsNextPage(t *testing.T) {
	f := pagedFetcher(2)
	c := NewController(f)

	_, err := c.Submit(context.Background(), model.SearchParams{Keywords: "robot"})
	require.NoError(t, err)

	st := c.Snapshot()
	assert.Len(t, st.Results, 2)
	assert.True(t, st.HasMore)

	ok, err := c.LoadNextPage(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	st = c.Snapshot()
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(st.Results))
	assert.Equal(t, 2, st.Params.Page)
	assert.Equal(t, "robot", f.calls[1].Keywords)
}

func TestNoFetchAfterLastPage(t *testing.T) {
	f := pagedFetcher(1)
	c := NewController(f)

	_, err := c.Submit(context.Background(), model.SearchParams{Keywords: "robot"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ok, err := c.LoadNextPage(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, []int{1}, f.pages())

	_, err = c.Submit(context.Background(), model.SearchParams{Keywords: "robot"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, f.pages())
}

func TestLoadNextPageWhileLoadingIsNoop(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := pagedFetcher(5)
	paged := f.respond
	f.respond = func(p model.SearchParams) (*model.SearchResult, error) {
		if p.Page == 2 {
			close(started)
			<-release
		}
		return paged(p)
	}
	c := NewController(f)
	_, err := c.Submit(context.Background(), model.SearchParams{Keywords: "robot"})
	require.NoError(t, err)

	done := make(chan bool)
	go func() {
		ok, _ := c.LoadNextPage(context.Background())
		done <- ok
	}()
	<-started

	assert.True(t, c.Snapshot().Loading)
	ok, err := c.LoadNextPage(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, []int{1, 2}, f.pages())
	assert.Len(t, c.Snapshot().Results, 4)
}

func TestPageFailureKeepsResults(t *testing.T) {
	failing := true
	f := pagedFetcher(5)
	paged := f.respond
	f.respond = func(p model.SearchParams) (*model.SearchResult, error) {
		if p.Page == 2 && failing {
			return nil, errors.New("connection refused")
		}
		return paged(p)
	}
	c := NewController(f)
	_, err := c.Submit(context.Background(), model.SearchParams{Keywords: "robot"})
	require.NoError(t, err)

	ok, err := c.LoadNextPage(context.Background())
	assert.False(t, ok)
	require.Error(t, err)

	st := c.Snapshot()
	assert.Equal(t, []int64{1, 2}, ids(st.Results))
	assert.True(t, st.HasMore)
	assert.Equal(t, 1, st.Params.Page)
	assert.Error(t, st.Err)
	assert.False(t, st.Loading)

	// Scrolling again does not hit the failing backend.
	for i := 0; i < 3; i++ {
		ok, err = c.LoadNextPage(context.Background())
		assert.False(t, ok)
		assert.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2}, f.pages())

	failing = false
	retry := st.Params
	retry.Page++
	require.NoError(t, c.Open(context.Background(), retry))
	assert.Equal(t, []int{1, 2, 2}, f.pages())
	st = c.Snapshot()
	assert.Nil(t, st.Err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(st.Results))
	assert.Equal(t, 2, st.Params.Page)

	ok, err = c.LoadNextPage(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2, 2, 3}, f.pages())
}

func TestFailedSubmitNeverMixesQueries(t *testing.T) {
	f := &fakeFetcher{respond: func(p model.SearchParams) (*model.SearchResult, error) {
		if p.Keywords == "drone" {
			return nil, errors.New("backend down")
		}
		return &model.SearchResult{Reports: reports(int64(p.Page*10+1), int64(p.Page*10+2)), HasMoreReports: true}, nil
	}}
	c := NewController(f)
	_, err := c.Submit(context.Background(), model.SearchParams{Keywords: "robot"})
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12}, ids(c.Snapshot().Results))

	_, err = c.Submit(context.Background(), model.SearchParams{Keywords: "drone"})
	require.Error(t, err)

	ok, err := c.LoadNextPage(context.Background())
	assert.False(t, ok)
	assert.NoError(t, err)

	st := c.Snapshot()
	assert.Equal(t, []int64{11, 12}, ids(st.Results))
	assert.Error(t, st.Err)
	for _, p := range f.calls {
		assert.False(t, p.Keywords == "drone" && p.Page > 1, "page %d of a failed query requested", p.Page)
	}
	assert.Equal(t, []int{1, 1}, f.pages())
}

func TestStaleResponseIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := &fakeFetcher{respond: func(p model.SearchParams) (*model.SearchResult, error) {
		if p.Keywords == "slow" {
			close(started)
			<-release
			return &model.SearchResult{Reports: reports(100), HasMoreReports: true}, nil
		}
		return &model.SearchResult{Reports: reports(7), HasMoreReports: false}, nil
	}}
	c := NewController(f)

	done := make(chan error)
	go func() {
		_, err := c.Submit(context.Background(), model.SearchParams{Keywords: "slow"})
		done <- err
	}()
	<-started

	_, err := c.Submit(context.Background(), model.SearchParams{Keywords: "fast"})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	st := c.Snapshot()
	assert.Equal(t, "fast", st.Params.Keywords)
	assert.Equal(t, []int64{7}, ids(st.Results))
	assert.False(t, st.HasMore)
	assert.False(t, st.Loading)
}

func TestSubmitResetsPageAndCleansTags(t *testing.T) {
	f := pagedFetcher(3)
	c := NewController(f)
	require.NoError(t, c.Open(context.Background(), model.SearchParams{Keywords: "ml", Page: 2}))

	loc, err := c.Submit(context.Background(), model.SearchParams{
		Keywords: " ml ",
		Tags:     []string{"AI", " AI", ""},
		Page:     4,
		Sector:   "Informatique",
	})
	require.NoError(t, err)

	assert.Equal(t, "/reports/search?query=ml&sector=Informatique&tags=AI", loc)
	assert.Equal(t, []int{2, 1}, f.pages())
	assert.Equal(t, "Informatique", f.calls[1].Sector)
	assert.Equal(t, []string{"AI"}, f.calls[1].Tags)
	assert.Equal(t, []int64{1, 2}, ids(c.Snapshot().Results))
}

func TestSort(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	in := []model.Report{
		{ID: 1, Title: "beta", CreatedAt: day(2)},
		{ID: 2, Title: "Alpha", CreatedAt: day(3)},
		{ID: 3, Title: "gamma", CreatedAt: day(1)},
	}

	assert.Equal(t, []int64{2, 1, 3}, ids(Sort(in, SortNewest)))
	assert.Equal(t, []int64{3, 1, 2}, ids(Sort(in, SortOldest)))
	assert.Equal(t, []int64{2, 1, 3}, ids(Sort(in, SortTitleAsc)))
	assert.Equal(t, []int64{3, 1, 2}, ids(Sort(in, SortTitleDesc)))
	assert.Equal(t, []int64{1, 2, 3}, ids(in), "input left alone")
	assert.Equal(t, SortNewest, ParseSortOrder("random"))
}

func TestRegistryOwnerAndExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(10 * time.Minute)
	r.now = func() time.Time { return now }

	ctrl := NewController(pagedFetcher(1))
	id := r.Add("session-a", ctrl)

	got, ok := r.Get(id, "session-a")
	require.True(t, ok)
	assert.Same(t, ctrl, got)

	_, ok = r.Get(id, "session-b")
	assert.False(t, ok)

	now = now.Add(9 * time.Minute)
	assert.Equal(t, 0, r.Sweep())
	_, ok = r.Get(id, "session-a")
	require.True(t, ok)

	now = now.Add(11 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 0, r.Len())
}
