package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

// Lists is the cached view of the backend reference lists. A failed reload
// must leave the cached copy in place.
type Lists interface {
	ReloadTags(ctx context.Context) ([]model.Tag, error)
	ReloadSectors(ctx context.Context) ([]model.Sector, error)
}

// ListRefresher reloads the tag and sector lists on a fixed interval so
// the search and upload forms rarely wait on the backend for them.
type ListRefresher struct {
	lists    Lists
	interval time.Duration

	mu        sync.Mutex
	running   bool
	runs      int
	failures  int
	lastRun   time.Time
	lastError string
	tags      int
	sectors   int
	stopChan  chan struct{}
}

func NewListRefresher(lists Lists, interval time.Duration) *ListRefresher {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &ListRefresher{
		lists:    lists,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start refreshes once, then every interval until ctx is done or Stop is
// called. It blocks.
func (s *ListRefresher) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	logger.Info("list refresher started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			s.markStopped()
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

func (s *ListRefresher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		logger.Info("list refresher stopped")
	}
}

func (s *ListRefresher) markStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Refresh loads both lists again. A list the backend fails to answer keeps
// being served from the cache.
func (s *ListRefresher) Refresh(ctx context.Context) {
	tags, tagErr := s.lists.ReloadTags(ctx)
	sectors, sectorErr := s.lists.ReloadSectors(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs++
	s.lastRun = time.Now()
	s.lastError = ""
	if tagErr == nil {
		s.tags = len(tags)
	}
	if sectorErr == nil {
		s.sectors = len(sectors)
	}
	for _, err := range []error{tagErr, sectorErr} {
		if err != nil {
			s.failures++
			s.lastError = err.Error()
			logger.Warn("list refresh failed", "error", err)
		}
	}
}

// Status is what /scheduler/status reports.
type Status struct {
	Running   bool      `json:"running"`
	Interval  string    `json:"interval"`
	Runs      int       `json:"runs"`
	Failures  int       `json:"failures"`
	LastRun   time.Time `json:"lastRun"`
	LastError string    `json:"lastError,omitempty"`
	Tags      int       `json:"tags"`
	Sectors   int       `json:"sectors"`
}

func (s *ListRefresher) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Running:   s.running,
		Interval:  s.interval.String(),
		Runs:      s.runs,
		Failures:  s.failures,
		LastRun:   s.lastRun,
		LastError: s.lastError,
		Tags:      s.tags,
		Sectors:   s.sectors,
	}
}
