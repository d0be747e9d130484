package limiter

import (
	"context"
	"fmt"
	"time"
)

const (
	ActionLogin  = "login"
	ActionSignup = "signup"
	ActionUpload = "upload"
)

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

var DefaultLimits = map[string]ActionConfig{
	ActionLogin:  {Limit: 10, Window: time.Minute},
	ActionSignup: {Limit: 5, Window: 10 * time.Minute},
	ActionUpload: {Limit: 5, Window: time.Hour},
}

type Limiter struct {
	counter Counter
	limits  map[string]ActionConfig
}

type CheckResult struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
	Limit     int64
}

func NewLimiter(counter Counter, limits map[string]ActionConfig) *Limiter {
	if limits == nil {
		limits = DefaultLimits
	}
	return &Limiter{counter: counter, limits: limits}
}

func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config, ok := l.limits[action]
	if !ok {
		config = ActionConfig{Limit: 100, Window: time.Minute}
	}

	key := fmt.Sprintf("rate:%s:%s", action, clientID)

	count, err := l.counter.Incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("increment counter: %w", err)
	}

	ttl, err := l.counter.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read ttl: %w", err)
	}
	if ttl < 0 {
		ttl = config.Window
	}

	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
		Limit:     config.Limit,
	}, nil
}
