// Package deploywizard is the terminal user interface of the deployment
// wizard. It renders a wizard.Session and forwards user actions to it.
package deploywizard

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

// DefaultRefreshInterval is how often the screens are redrawn from the session state.
const DefaultRefreshInterval = 500 * time.Millisecond

// DefaultStartupTimeout bounds the wait for the backend to report a status.
const DefaultStartupTimeout = 2 * time.Minute

// Options tune a Wizard.
type Options struct {
	Logger          *zap.Logger
	RefreshInterval time.Duration
	StartupTimeout  time.Duration
	Screen          tcell.Screen
}

// Wizard is the tview application driving one session.
type Wizard struct {
	app       *tview.Application
	pages     *tview.Pages
	api       wizard.API
	session   *wizard.Session
	presenter *presenter
	logger    *zap.Logger

	refresh        time.Duration
	startupTimeout time.Duration

	mu  sync.Mutex
	ctx context.Context
}

// New builds the application. The builder carries the session settings; the
// wizard itself becomes the session's navigator.
func New(api wizard.API, builder *wizard.Builder, opts Options) (*Wizard, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}

	if opts.StartupTimeout <= 0 {
		opts.StartupTimeout = DefaultStartupTimeout
	}

	w := &Wizard{
		app:            tview.NewApplication(),
		pages:          tview.NewPages(),
		api:            api,
		logger:         opts.Logger,
		refresh:        opts.RefreshInterval,
		startupTimeout: opts.StartupTimeout,
		ctx:            context.Background(),
	}

	if opts.Screen != nil {
		w.app.SetScreen(opts.Screen)
	}

	session, err := builder.Build(api, w)
	if err != nil {
		return nil, err
	}

	w.session = session
	w.presenter = newPresenter(w.app, w.pages, session, w.logger, w.context)

	w.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			w.app.Stop()

			return nil
		}

		return event
	})

	return w, nil
}

// Session returns the session the wizard renders.
func (w *Wizard) Session() *wizard.Session {
	return w.session
}

func (w *Wizard) context() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.ctx
}

// Navigate switches screens and starts the background loop the screen needs.
// It may be called from any goroutine.
func (w *Wizard) Navigate(screen wizard.Screen) {
	w.logger.Info("navigating", zap.String("screen", string(screen)))

	switch screen {
	case wizard.ScreenWizard:
		w.session.Controller.Start(w.context())
	case wizard.ScreenDashboard:
		w.session.Usage.Start(w.context())
	}

	w.app.QueueUpdateDraw(func() { w.presenter.show(screen) })
}

func (w *Wizard) startup(ctx context.Context) error {
	reply, err := wizard.WaitForBackend(ctx, w.api, w.session.Config().PollInterval, w.startupTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}

		w.app.QueueUpdateDraw(func() { w.presenter.showError(err) })

		return nil
	}

	w.logger.Info("backend available", zap.String("status", reply.Status))

	if screen, ok := wizard.ScreenFor(reply.Status); ok {
		w.Navigate(screen)
	}

	return nil
}

func (w *Wizard) redraw(ctx context.Context) error {
	ticker := time.NewTicker(w.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			view := w.session.Controller.View()
			w.app.QueueUpdateDraw(func() { w.presenter.refresh(view) })
		}
	}
}

// Run shows the application until the user quits or ctx is done.
func (w *Wizard) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	w.pages.AddPage("loading", tview.NewModal().SetText("Waiting for the appliance..."), true, true)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()

		return w.app.SetRoot(w.pages, true).SetFocus(w.pages).Run()
	})

	g.Go(func() error {
		<-gctx.Done()

		w.session.Stop()
		w.app.Stop()

		return nil
	})

	g.Go(func() error { return w.startup(gctx) })
	g.Go(func() error { return w.redraw(gctx) })

	return g.Wait()
}
