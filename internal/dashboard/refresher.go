package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourorg/secops-dashboard/internal/metrics"
)

// Snapshot is one complete refresh cycle's worth of dashboard state.
type Snapshot struct {
	Metrics  HeadlineMetrics          `json:"metrics"`
	Alerts   []Alert                  `json:"alerts"`
	Timeline []Activity               `json:"timeline"`
	Posture  []metrics.SeverityBucket `json:"posture"`
	Agents   []AgentStatus            `json:"agents"`
}

// Snapshot fans out the five composite views concurrently and assembles the
// result. Individual slices degrade independently, so this never errors.
func (s *Service) Snapshot(ctx context.Context) *Snapshot {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Metrics = s.Metrics(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Alerts = s.RecentAlerts(gctx, 10)
		return nil
	})
	g.Go(func() error {
		snap.Timeline = s.ActivityTimeline(gctx, 20)
		return nil
	})
	g.Go(func() error {
		snap.Posture = s.SecurityPosture(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Agents = s.AgentStatus(gctx)
		return nil
	})
	_ = g.Wait()
	return snap
}

// State is what the API hands to clients: the latest snapshot plus the
// refresh bookkeeping the UI shows (spinner, error banner, staleness).
type State struct {
	Snapshot    *Snapshot  `json:"snapshot"`
	Loading     bool       `json:"loading"`
	Error       string     `json:"error,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

// Refresher owns the periodic refresh cycle. Run starts an immediate refresh
// and then ticks at the configured interval until ctx is cancelled, so no
// refresh can fire after teardown. Manual refreshes may overlap timer ticks;
// cycles are pure reads, last writer wins.
type Refresher struct {
	svc      *Service
	interval time.Duration
	log      *logrus.Logger

	mu          sync.RWMutex
	latest      *Snapshot
	loading     bool
	lastUpdated *time.Time
}

func NewRefresher(svc *Service, interval time.Duration, log *logrus.Logger) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Refresher{svc: svc, interval: interval, log: log}
}

func (r *Refresher) Run(ctx context.Context) {
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh executes one full fan-out cycle and publishes the result.
func (r *Refresher) Refresh(ctx context.Context) {
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	started := time.Now()
	snap := r.svc.Snapshot(ctx)

	r.mu.Lock()
	r.latest = snap
	r.loading = false
	now := time.Now()
	r.lastUpdated = &now
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"took":       time.Since(started).Round(time.Millisecond).String(),
		"activities": len(snap.Timeline),
		"alerts":     len(snap.Alerts),
	}).Debug("dashboard refreshed")
}

func (r *Refresher) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return State{
		Snapshot:    r.latest,
		Loading:     r.loading,
		LastUpdated: r.lastUpdated,
	}
}
