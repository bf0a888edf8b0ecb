package swarm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"hydra/internal/config"
	"hydra/internal/llm"
	"hydra/internal/logging"
)

// scheduler enforces the engine's concurrency budgets: a global cap plus
// one cap per execution class. A task may start only when both the global
// slot and its class slot are held. Owned by a single engine instance so
// concurrent pipeline runs never share counters.
type scheduler struct {
	global chan struct{}
	byClas map[llm.Class]chan struct{}

	mu         sync.Mutex
	active     map[llm.Class]int
	peakActive int
	totalRuns  atomic.Int64
}

func newScheduler(cfg config.ExecutionConfig) *scheduler {
	globalCap := cfg.MaxConcurrent
	if globalCap <= 0 {
		globalCap = 5
	}
	localCap := cfg.MaxLocal
	if localCap <= 0 {
		localCap = 2
	}
	cloudCap := cfg.MaxCloud
	if cloudCap <= 0 {
		cloudCap = 4
	}

	return &scheduler{
		global: make(chan struct{}, globalCap),
		byClas: map[llm.Class]chan struct{}{
			llm.ClassLocal: make(chan struct{}, localCap),
			llm.ClassCloud: make(chan struct{}, cloudCap),
		},
		active: make(map[llm.Class]int),
	}
}

// acquire blocks until both the global and class slot are free, or the
// context ends. Class slot is taken first so a stalled class cannot hold
// the global budget hostage while waiting.
func (s *scheduler) acquire(ctx context.Context, class llm.Class) error {
	classSlots, ok := s.byClas[class]
	if !ok {
		return fmt.Errorf("unknown execution class %q", class)
	}

	select {
	case classSlots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case s.global <- struct{}{}:
	case <-ctx.Done():
		<-classSlots
		return ctx.Err()
	}

	s.mu.Lock()
	s.active[class]++
	total := 0
	for _, n := range s.active {
		total += n
	}
	if total > s.peakActive {
		s.peakActive = total
	}
	s.mu.Unlock()
	s.totalRuns.Add(1)

	logging.ExecDebug("[Scheduler] acquired slot class=%s active=%d", class, total)
	return nil
}

// release frees both slots. Must be called exactly once per successful
// acquire.
func (s *scheduler) release(class llm.Class) {
	s.mu.Lock()
	s.active[class]--
	s.mu.Unlock()

	<-s.global
	if classSlots, ok := s.byClas[class]; ok {
		<-classSlots
	}
}

// stats returns total dispatches and the peak simultaneous task count.
func (s *scheduler) stats() (totalRuns int64, peak int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalRuns.Load(), s.peakActive
}
