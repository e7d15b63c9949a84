package wizard

import (
	"context"
	"time"
)

// Requester issues JSON requests against the backend. Non-2xx responses are
// returned as errors.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
}

//go:generate go run github.com/golang/mock/mockgen -package wizard -destination mock_api_test.go github.com/cozystack/rlyehctl/internal/pkg/wizard API

// API is the typed backend surface used by the wizard.
type API interface {
	Status(ctx context.Context) (StatusReply, error)
	Bootstrap(ctx context.Context) error
	Inventory(ctx context.Context) (InventoryReply, error)
	AcceptSolution(ctx context.Context, name string) error
	SetupServices(ctx context.Context, exports []string) error
	Usage(ctx context.Context) (UsageStats, error)
}

// Screen is a navigation target.
type Screen string

const (
	ScreenChooseOperation Screen = "choose-operation"
	ScreenWizard          Screen = "wizard"
	ScreenDashboard       Screen = "dashboard"
)

// Navigator switches the presentation to a screen.
type Navigator interface {
	Navigate(screen Screen)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(screen Screen)

func (f NavigatorFunc) Navigate(screen Screen) { f(screen) }

// CancelFunc cancels a scheduled callback. It reports whether the callback
// was prevented from running.
type CancelFunc func() bool

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) CancelFunc
}

// CatalogSource provides the current solution catalog.
type CatalogSource interface {
	Catalog() []SolutionCandidate
}
