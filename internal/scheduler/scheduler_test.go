package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLists struct {
	mu        sync.Mutex
	reloaded  []string
	sectorErr error
}

func (f *fakeLists) ReloadTags(context.Context) ([]model.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloaded = append(f.reloaded, "tags")
	return []model.Tag{{Name: "AI"}, {Name: "IoT"}}, nil
}

func (f *fakeLists) ReloadSectors(context.Context) ([]model.Sector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloaded = append(f.reloaded, "sectors")
	if f.sectorErr != nil {
		return nil, f.sectorErr
	}
	return []model.Sector{{Name: "Informatique"}}, nil
}

func TestRefreshReloadsBothLists(t *testing.T) {
	lists := &fakeLists{}
	s := NewListRefresher(lists, time.Hour)

	s.Refresh(context.Background())

	st := s.GetStatus()
	assert.Equal(t, 1, st.Runs)
	assert.Equal(t, 2, st.Tags)
	assert.Equal(t, 1, st.Sectors)
	assert.Empty(t, st.LastError)
	assert.Equal(t, []string{"tags", "sectors"}, lists.reloaded)
}

func TestRefreshKeepsLastGoodCounts(t *testing.T) {
	lists := &fakeLists{}
	s := NewListRefresher(lists, time.Hour)
	s.Refresh(context.Background())

	lists.sectorErr = errors.New("backend down")
	s.Refresh(context.Background())

	st := s.GetStatus()
	assert.Equal(t, 2, st.Runs)
	assert.Equal(t, 1, st.Failures)
	assert.Equal(t, 1, st.Sectors)
	assert.Equal(t, "backend down", st.LastError)
}

func TestStartRunsUntilCancelled(t *testing.T) {
	s := NewListRefresher(&fakeLists{}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.GetStatus().Runs == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, s.GetStatus().Running)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
	assert.False(t, s.GetStatus().Running)
}
