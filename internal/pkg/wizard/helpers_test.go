package wizard

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errBackendDown = errors.New("backend down")

// manualScheduler queues callbacks until the test fires them.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTask
}

type manualTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &manualTask{delay: d, fn: f}
	s.pending = append(s.pending, task)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()

		if task.cancelled {
			return false
		}

		for i, t := range s.pending {
			if t == task {
				task.cancelled = true
				s.pending = append(s.pending[:i], s.pending[i+1:]...)

				return true
			}
		}

		return false
	}
}

// Fire runs the oldest pending callback on the calling goroutine.
func (s *manualScheduler) Fire() bool {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()

		return false
	}

	task := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	task.fn()

	return true
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// NextDelay returns the delay of the oldest pending callback.
func (s *manualScheduler) NextDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return -1
	}

	return s.pending[0].delay
}

// scriptedAPI replays a list of statuses and counts calls.
type scriptedAPI struct {
	mu        sync.Mutex
	statuses  []string
	statusErr error
	inventory InventoryReply
	invErr    error
	invCalls  int
	accepted  []string
	acceptErr error
	exports   [][]string
	setupErr  error
	usage     UsageStats
	usageErr  error
}

func (a *scriptedAPI) Status(context.Context) (StatusReply, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.statusErr != nil {
		return StatusReply{}, a.statusErr
	}

	if len(a.statuses) == 0 {
		return StatusReply{Status: StatusNone}, nil
	}

	status := a.statuses[0]
	if len(a.statuses) > 1 {
		a.statuses = a.statuses[1:]
	}

	return StatusReply{Status: status}, nil
}

func (a *scriptedAPI) Bootstrap(context.Context) error { return nil }

func (a *scriptedAPI) Inventory(context.Context) (InventoryReply, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.invCalls++

	return a.inventory, a.invErr
}

func (a *scriptedAPI) AcceptSolution(_ context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.accepted = append(a.accepted, name)

	return a.acceptErr
}

func (a *scriptedAPI) SetupServices(_ context.Context, exports []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.exports = append(a.exports, exports)

	return a.setupErr
}

func (a *scriptedAPI) Usage(context.Context) (UsageStats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.usage, a.usageErr
}

func (a *scriptedAPI) inventoryCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.invCalls
}

// staticCatalog is a fixed CatalogSource.
type staticCatalog []SolutionCandidate

func (c staticCatalog) Catalog() []SolutionCandidate { return c }

func classifyAll(tokens ...string) Stages {
	var s Stages
	for _, tok := range tokens {
		s = Classify(s, tok)
	}

	return s
}

func sampleInventory() InventoryReply {
	return InventoryReply{
		Devices: []Device{
			{Path: "/dev/sda", Type: "hdd", SizeBytes: 1000, Available: true},
			{Path: "/dev/sdb", Type: "ssd", SizeBytes: 3000, Available: true},
			{Path: "/dev/sdc", Type: "hdd", SizeBytes: 500, Available: false},
		},
		Solution: SolutionReport{
			CanRaid0:  true,
			CanRaid1:  true,
			Raid0Size: 4000,
			Raid1Size: 2000,
		},
	}
}
