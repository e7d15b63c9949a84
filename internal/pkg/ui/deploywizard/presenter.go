package deploywizard

import (
	"context"
	"fmt"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

const (
	pageError = "error"
)

// presenter owns the tview widgets of every screen. All of its methods run
// on the application's event goroutine.
type presenter struct {
	app     *tview.Application
	pages   *tview.Pages
	session *wizard.Session
	logger  *zap.Logger
	ctx     func() context.Context

	header    *tview.TextView
	stages    *tview.TextView
	actions   *tview.Pages
	progress  *tview.TextView
	failed    *tview.TextView
	inventory *tview.TextView
	solutions *tview.List
	exports   *tview.List
	exportIn  *tview.InputField
	dashboard *tview.TextView

	catalog []wizard.SolutionCandidate
	names   []string
}

func newPresenter(app *tview.Application, pages *tview.Pages, session *wizard.Session, logger *zap.Logger, ctx func() context.Context) *presenter {
	p := &presenter{
		app:     app,
		pages:   pages,
		session: session,
		logger:  logger,
		ctx:     ctx,
	}

	pages.AddPage(string(wizard.ScreenChooseOperation), p.chooseOperationPage(), true, false)
	pages.AddPage(string(wizard.ScreenWizard), p.wizardPage(), true, false)
	pages.AddPage(string(wizard.ScreenDashboard), p.dashboardPage(), true, false)

	return p
}

func (p *presenter) chooseOperationPage() tview.Primitive {
	return tview.NewModal().
		SetText("No deployment found on this appliance.\n\nStart a new deployment?").
		AddButtons([]string{"Bootstrap", "Quit"}).
		SetDoneFunc(func(_ int, label string) {
			switch label {
			case "Bootstrap":
				p.chooseBootstrap()
			default:
				p.app.Stop()
			}
		})
}

func (p *presenter) chooseBootstrap() {
	chooser := p.session.Chooser
	if chooser.Waiting() {
		return
	}

	go func() {
		if err := chooser.ChooseBootstrap(p.ctx()); err != nil {
			p.app.QueueUpdateDraw(func() { p.showError(err) })
		}
	}()
}

func (p *presenter) wizardPage() tview.Primitive {
	p.header = tview.NewTextView().SetDynamicColors(true)

	p.stages = tview.NewTextView().SetDynamicColors(true)
	p.stages.SetBorder(true).SetTitle("Stages").SetTitleAlign(tview.AlignLeft)

	p.progress = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	p.failed = tview.NewTextView().SetDynamicColors(true).SetTextColor(tcell.ColorRed)

	p.actions = tview.NewPages().
		AddPage(actionProgress, p.progress, true, true).
		AddPage(actionSolution, p.solutionPage(), true, false).
		AddPage(actionExports, p.exportsPage(), true, false).
		AddPage(actionFailed, p.failed, true, false)
	p.actions.SetBorder(true).SetTitleAlign(tview.AlignLeft)

	body := tview.NewFlex().
		AddItem(p.stages, 24, 0, false).
		AddItem(p.actions, 0, 1, true)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.header, 3, 0, false).
		AddItem(body, 0, 1, true)
	flex.SetBorder(true).SetTitle("Deployment").SetTitleAlign(tview.AlignLeft)

	return flex
}

func (p *presenter) solutionPage() tview.Primitive {
	p.inventory = tview.NewTextView()

	p.solutions = tview.NewList().ShowSecondaryText(false)
	p.solutions.SetBorder(true).SetTitle("Choose a layout")

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.inventory, 0, 1, false).
		AddItem(p.solutions, 6, 0, true)
}

func (p *presenter) acceptSolution(name string) {
	selector := p.session.Controller.Solutions()
	if !selector.Select(name) {
		p.showError(fmt.Errorf("layout %q cannot be used", name))

		return
	}

	go func() {
		if err := selector.Accept(p.ctx()); err != nil {
			p.app.QueueUpdateDraw(func() { p.showError(err) })
		}
	}()
}

func (p *presenter) exportsPage() tview.Primitive {
	exports := p.session.Controller.Exports()

	p.exports = tview.NewList().ShowSecondaryText(false)
	p.exports.SetBorder(true).SetTitle("Exports (Del removes)")
	p.exports.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() != tcell.KeyDelete && event.Key() != tcell.KeyBackspace2 {
			return event
		}

		if idx := p.exports.GetCurrentItem(); idx >= 0 && idx < len(p.names) {
			exports.Remove(p.names[idx])
			p.syncExports(exports.Names())
		}

		return nil
	})

	p.exportIn = tview.NewInputField().SetLabel("NFS export: ").SetFieldWidth(32)
	p.exportIn.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}

		name := p.exportIn.GetText()
		if !exports.IsValidName(name) {
			p.showError(wizard.ValidateExportName(name, exports.Names()))

			return
		}

		exports.Add(name)
		p.exportIn.SetText("")
		p.syncExports(exports.Names())
	})

	buttons := tview.NewForm().
		AddButton("Confirm", func() {
			if exports.Confirming() || exports.Confirmed() {
				return
			}

			go func() {
				if err := exports.Confirm(p.ctx()); err != nil {
					p.app.QueueUpdateDraw(func() { p.showError(err) })
				}
			}()
		})

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.exportIn, 1, 0, true).
		AddItem(p.exports, 0, 1, false).
		AddItem(buttons, 3, 0, false)
}

func (p *presenter) syncExports(names []string) {
	if slices.Equal(names, p.names) {
		return
	}

	p.names = names
	p.exports.Clear()

	for _, name := range names {
		p.exports.AddItem(name, "", 0, nil)
	}
}

func (p *presenter) syncCatalog(catalog []wizard.SolutionCandidate) {
	if slices.Equal(catalog, p.catalog) {
		return
	}

	p.catalog = catalog
	p.solutions.Clear()

	for _, c := range catalog {
		name := c.Name
		p.solutions.AddItem(describeCandidate(c), "", 0, func() { p.acceptSolution(name) })
	}
}

func (p *presenter) dashboardPage() tview.Primitive {
	p.dashboard = tview.NewTextView().SetDynamicColors(true)
	p.dashboard.SetBorder(true).SetTitle("Storage usage").SetTitleAlign(tview.AlignLeft)

	return p.dashboard
}

// show switches to a screen.
func (p *presenter) show(screen wizard.Screen) {
	p.logger.Debug("switching screen", zap.String("screen", string(screen)))
	p.pages.SwitchToPage(string(screen))
}

func (p *presenter) showError(err error) {
	if err == nil {
		return
	}

	p.logger.Warn("action failed", zap.Error(err))

	modal := tview.NewModal().
		SetText(fmt.Sprintf("Error: %s", err)).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			p.pages.RemovePage(pageError)
		})

	p.pages.AddPage(pageError, modal, true, true)
	p.app.SetFocus(modal)
}

// refresh redraws the wizard and dashboard screens from the current session state.
func (p *presenter) refresh(view wizard.View) {
	p.header.SetText(fmt.Sprintf(" %s %3d%%  [::b]%s[::-]\n Session %s",
		progressBar(stepPercent(view)), stepPercent(view), statusTitle(view.Status), view.SessionID))
	p.stages.SetText(renderStages(view.Stages))

	page := actionPage(view)

	switch page {
	case actionFailed:
		p.actions.SetTitle("Failed")
		p.failed.SetText(fmt.Sprintf("Deployment failed at stage %s.\n\nCheck the appliance logs.", view.FailedStage.Label()))
	case actionSolution:
		p.actions.SetTitle("Inventory")
		p.inventory.SetText(renderInventory(view))
		p.syncCatalog(view.Catalog)
	case actionExports:
		p.actions.SetTitle("Services")
		p.syncExports(view.Exports)
	default:
		p.actions.SetTitle("Progress")
		p.progress.SetText(p.progressText(view))
	}

	if name, _ := p.actions.GetFrontPage(); name != page {
		p.actions.SwitchToPage(page)
	}

	p.refreshDashboard(view)
}

func (p *presenter) progressText(view wizard.View) string {
	switch {
	case view.AcceptState == wizard.FlightInFlight:
		return "Submitting the storage layout..."
	case view.ExportsState == wizard.FlightInFlight:
		return "Configuring services..."
	case view.InventoryState == wizard.FlightInFlight:
		return "Reading the device inventory..."
	}

	text := fmt.Sprintf("Current stage: %s\n\n", wizard.AllStages[view.Step].Label())
	if view.Result != nil {
		text += renderResult(view.Result)
	}

	return text
}

func (p *presenter) refreshDashboard(view wizard.View) {
	_, items, loaded := p.session.Usage.Snapshot()

	text := renderResult(view.Result)
	if text != "" {
		text += "\n"
	}

	if loaded {
		text += renderUsage(items)
	} else {
		text += "Loading usage statistics..."
	}

	p.dashboard.SetText(text)
}
