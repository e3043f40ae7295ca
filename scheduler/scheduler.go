// Package scheduler runs named periodic maintenance tasks (leaderboard
// refresh, stale-encounter pruning) on their own goroutines.
package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFn is one scheduled unit of work. It must not block indefinitely.
type TaskFn func()

// Scheduler owns a set of named ticker tasks.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[string]chan struct{}
	logger *zap.Logger
	closed bool
}

// New creates an empty Scheduler.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tasks:  make(map[string]chan struct{}),
		logger: logger,
	}
}

// AddTicker runs fn every interval until the task is removed or the
// scheduler stops. Re-registering a name replaces the previous task.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if stop, ok := s.tasks[name]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	s.tasks[name] = stop

	go s.run(name, interval, fn, stop)
	s.logger.Info("task scheduled",
		zap.String("task", name), zap.Duration("interval", interval))
}

func (s *Scheduler) run(name string, interval time.Duration, fn TaskFn, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.invoke(name, fn)
		case <-stop:
			return
		}
	}
}

// invoke shields the ticker goroutine from a panicking task.
func (s *Scheduler) invoke(name string, fn TaskFn) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panicked",
				zap.String("task", name), zap.Any("panic", r))
		}
	}()
	fn()
}

// Remove stops the named task. Unknown names are ignored.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.tasks[name]; ok {
		close(stop)
		delete(s.tasks, name)
	}
}

// Stop stops every task. The scheduler accepts no new tasks afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for name, stop := range s.tasks {
		close(stop)
		delete(s.tasks, name)
	}
}

// ListTickers returns the names of the registered tasks.
func (s *Scheduler) ListTickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	return names
}
