package deploywizard

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

// Names of the pages nested in the wizard screen's action area.
const (
	actionProgress = "progress"
	actionSolution = "solution"
	actionExports  = "exports"
	actionFailed   = "failed"
)

const barWidth = 30

var titleCaser = cases.Title(language.English)

// progressBar renders a fixed-width text bar for a percentage.
func progressBar(percent int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * barWidth / 100

	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"
}

// stepPercent converts the current wizard step into a completion percentage.
func stepPercent(view wizard.View) int {
	if view.Ready {
		return 100
	}

	return view.Step * 100 / (len(wizard.AllStages) - 1)
}

// statusTitle turns a normalized status such as inventory_wait into "Inventory Wait".
func statusTitle(status string) string {
	if status == "" {
		status = wizard.StatusNone
	}

	return titleCaser.String(strings.ReplaceAll(status, "_", " "))
}

func stageMarker(s wizard.StageView) string {
	switch {
	case s.Error:
		return "[red]✗[-]"
	case s.Ended:
		return "[green]✓[-]"
	case s.Waiting:
		return "[yellow]?[-]"
	case s.Started:
		return "[yellow]…[-]"
	default:
		return "[gray]·[-]"
	}
}

// renderStages lists the stages with a colored marker each.
func renderStages(stages []wizard.StageView) string {
	var b strings.Builder

	for _, s := range stages {
		fmt.Fprintf(&b, " %s %s\n", stageMarker(s), s.Label)
	}

	return b.String()
}

func bytesLabel(n int64) string {
	return humanize.IBytes(uint64(max(n, 0)))
}

// describeCandidate is the list entry of a solution candidate.
func describeCandidate(c wizard.SolutionCandidate) string {
	text := fmt.Sprintf("%s (%s) - %s", c.Label, c.Name, bytesLabel(c.SizeBytes))
	if !c.Available {
		text += " - not enough devices"
	}

	return text
}

func describeDevice(d wizard.Device) string {
	state := "in use"
	if d.Available {
		state = "available"
	}

	return fmt.Sprintf("%-12s %-4s %10s  %s", d.Path, d.Type, bytesLabel(d.SizeBytes), state)
}

// renderInventory describes the scanned devices and their usable capacity.
func renderInventory(view wizard.View) string {
	var b strings.Builder

	for _, d := range view.Devices {
		b.WriteString(describeDevice(d))
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nRaw capacity: %s", bytesLabel(view.AvailableRawBytes))

	return b.String()
}

// renderResult describes the bootstrapped cluster.
func renderResult(result *wizard.BootstrapResult) string {
	if result == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Cluster FSID: %s\n", result.FSID)

	if result.ConfigPath != "" {
		fmt.Fprintf(&b, "Config:       %s\n", result.ConfigPath)
	}

	if result.KeyringPath != "" {
		fmt.Fprintf(&b, "Keyring:      %s\n", result.KeyringPath)
	}

	if d := result.Dashboard; d != nil {
		fmt.Fprintf(&b, "Dashboard:    %s (user %s)\n", DashboardURL(d), d.User)
	}

	return b.String()
}

// DashboardURL is the address of the management dashboard.
func DashboardURL(d *wizard.DashboardInfo) string {
	return fmt.Sprintf("https://%s:%d", d.Host, d.Port)
}

// renderUsage draws one bar per usage item, relative to the sum of all items.
func renderUsage(items []wizard.UsageItem) string {
	var total int64
	for _, item := range items {
		total += item.Value
	}

	var b strings.Builder

	for _, item := range items {
		percent := 0
		if total > 0 {
			percent = int(item.Value * 100 / total)
		}

		fmt.Fprintf(&b, "%-12s %s %3d%% %s\n", item.Name, progressBar(percent), percent, bytesLabel(item.Value))
	}

	return b.String()
}

// actionPage picks the action area page for a session snapshot.
func actionPage(view wizard.View) string {
	switch {
	case view.Failed:
		return actionFailed
	case view.AwaitingSolution():
		return actionSolution
	case view.AwaitingExports():
		return actionExports
	default:
		return actionProgress
	}
}
