// Package ratelimit provides client-side pacing for venue REST APIs.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces requests with a shared global budget plus optional named
// buckets, one per endpoint group.
type Limiter struct {
	global   *rate.Limiter
	buckets  sync.Map
	requests int
	period   time.Duration
	metrics  *Metrics
}

// Metrics tracks statistics about limiter usage.
type Metrics struct {
	totalRequests   atomic.Int64
	allowedRequests atomic.Int64
	deniedRequests  atomic.Int64
}

// New creates a Limiter allowing the given number of requests per period.
func New(requests int, period time.Duration) *Limiter {
	rps := float64(requests) / period.Seconds()
	return &Limiter{
		global:   rate.NewLimiter(rate.Limit(rps), requests),
		requests: requests,
		period:   period,
		metrics:  &Metrics{},
	}
}

// Wait blocks until the global budget allows a request or the context is
// cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	l.metrics.totalRequests.Add(1)
	if err := l.global.Wait(ctx); err != nil {
		l.metrics.deniedRequests.Add(1)
		return err
	}
	l.metrics.allowedRequests.Add(1)
	return nil
}

// WaitBucket blocks until the named bucket allows a request or the context
// is cancelled. Buckets are created on demand with the default rate.
func (l *Limiter) WaitBucket(ctx context.Context, bucket string) error {
	l.metrics.totalRequests.Add(1)
	if err := l.getBucket(bucket).Wait(ctx); err != nil {
		l.metrics.deniedRequests.Add(1)
		return err
	}
	l.metrics.allowedRequests.Add(1)
	return nil
}

// Allow reports whether the global budget permits a request right now.
func (l *Limiter) Allow() bool {
	l.metrics.totalRequests.Add(1)
	allowed := l.global.Allow()
	if allowed {
		l.metrics.allowedRequests.Add(1)
	} else {
		l.metrics.deniedRequests.Add(1)
	}
	return allowed
}

// AllowBucket reports whether the named bucket permits a request right now.
func (l *Limiter) AllowBucket(bucket string) bool {
	l.metrics.totalRequests.Add(1)
	allowed := l.getBucket(bucket).Allow()
	if allowed {
		l.metrics.allowedRequests.Add(1)
	} else {
		l.metrics.deniedRequests.Add(1)
	}
	return allowed
}

func (l *Limiter) getBucket(bucket string) *rate.Limiter {
	if v, ok := l.buckets.Load(bucket); ok {
		return v.(*rate.Limiter)
	}

	rps := float64(l.requests) / l.period.Seconds()
	limiter := rate.NewLimiter(rate.Limit(rps), l.requests)
	actual, _ := l.buckets.LoadOrStore(bucket, limiter)
	return actual.(*rate.Limiter)
}

// SetLimit updates the global budget to the given requests per period.
func (l *Limiter) SetLimit(requests int, period time.Duration) {
	l.requests = requests
	l.period = period
	l.global.SetLimit(rate.Limit(float64(requests) / period.Seconds()))
}

// Snapshot returns a point-in-time capture of limiter statistics.
func (l *Limiter) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests:   l.metrics.totalRequests.Load(),
		AllowedRequests: l.metrics.allowedRequests.Load(),
		DeniedRequests:  l.metrics.deniedRequests.Load(),
	}
}

// MetricsSnapshot is a point-in-time capture of limiter statistics.
type MetricsSnapshot struct {
	TotalRequests   int64
	AllowedRequests int64
	DeniedRequests  int64
}
