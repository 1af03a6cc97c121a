package service

import (
	"context"
	"sync/atomic"
	"time"

	"fermentation_dashboard/internal/logger"

	"github.com/sourcegraph/conc"
)

// DefaultRefreshInterval is the period between two refresh passes.
const DefaultRefreshInterval = 30 * time.Second

// RefreshState is the state of the refresh loop.
type RefreshState int32

const (
	Idle RefreshState = iota
	Refreshing
)

func (s RefreshState) String() string {
	if s == Refreshing {
		return "refreshing"
	}
	return "idle"
}

type pipeline struct {
	name string
	run  func(ctx context.Context) error
}

// RefreshService dispatches every dashboard pipeline on a fixed period.
// A pass does not wait for its pipelines: a slow backend never delays the
// next tick, and passes may overlap.
type RefreshService struct {
	pipelines []pipeline
	log       *logger.Logger

	state  atomic.Int32
	passes atomic.Uint64
}

func NewRefreshService(d *DashboardService, log *logger.Logger) *RefreshService {
	return &RefreshService{
		pipelines: []pipeline{
			{name: WidgetStatus, run: d.UpdateStatus},
			{name: "primary_chart", run: d.UpdatePrimaryChart},
			{name: "secondary_chart", run: d.UpdateSecondaryChart},
			{name: WidgetSessions, run: d.UpdateSessions},
		},
		log: logger.OrNop(log),
	}
}

// Pass is a dispatched refresh pass.
type Pass struct {
	done chan struct{}
}

// Wait blocks until every pipeline of the pass has returned.
func (p *Pass) Wait() { <-p.done }

// Done is closed once every pipeline of the pass has returned.
func (p *Pass) Done() <-chan struct{} { return p.done }

// RefreshPass starts all pipelines and returns without waiting for them.
// Pipeline errors are already logged by the pipelines; a panic is recovered
// and logged so the loop keeps running.
func (r *RefreshService) RefreshPass(ctx context.Context) *Pass {
	r.state.Store(int32(Refreshing))
	defer r.state.Store(int32(Idle))

	n := r.passes.Add(1)
	wg := conc.NewWaitGroup()
	for _, p := range r.pipelines {
		p := p
		wg.Go(func() {
			if err := p.run(ctx); err != nil {
				r.log.Debugw("pipeline_failed", "pass", n, "pipeline", p.name, "error", err)
			}
		})
	}

	pass := &Pass{done: make(chan struct{})}
	go func() {
		defer close(pass.done)
		if rec := wg.WaitAndRecover(); rec != nil {
			r.log.Errorw("pipeline_panicked", "pass", n, "panic", rec.Value)
		}
	}()
	r.log.Debugw("refresh_pass_dispatched", "pass", n)
	return pass
}

// Run performs one pass immediately, then one every period until ctx is
// cancelled.
func (r *RefreshService) Run(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = DefaultRefreshInterval
	}
	r.RefreshPass(ctx)

	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.RefreshPass(ctx)
		}
	}
}

func (r *RefreshService) State() RefreshState { return RefreshState(r.state.Load()) }

// Passes is the number of passes dispatched so far.
func (r *RefreshService) Passes() uint64 { return r.passes.Load() }
