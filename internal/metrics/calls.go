package metrics

import (
	"sort"
	"sync"
	"time"
)

// CallStats summarises the calls made to one command.
type CallStats struct {
	Command  string
	Calls    int
	Failures int
	Total    time.Duration
	Max      time.Duration
}

// Average returns the mean call duration
func (s CallStats) Average() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// CallTracker accumulates per-command call timings.
type CallTracker struct {
	mu    sync.RWMutex
	stats map[string]*CallStats
}

func NewCallTracker() *CallTracker {
	return &CallTracker{
		stats: make(map[string]*CallStats),
	}
}

// Record adds one finished call.
func (ct *CallTracker) Record(command string, duration time.Duration, err error) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	s, ok := ct.stats[command]
	if !ok {
		s = &CallStats{Command: command}
		ct.stats[command] = s
	}

	s.Calls++
	if err != nil {
		s.Failures++
	}
	s.Total += duration
	if duration > s.Max {
		s.Max = duration
	}
}

func (ct *CallTracker) Stats(command string) CallStats {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	if s, ok := ct.stats[command]; ok {
		return *s
	}
	return CallStats{Command: command}
}

// Snapshot returns every command's stats sorted by command name.
func (ct *CallTracker) Snapshot() []CallStats {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	out := make([]CallStats, 0, len(ct.stats))
	for _, s := range ct.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	return out
}
