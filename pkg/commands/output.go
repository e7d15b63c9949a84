// Copyright Cozystack Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gobwas/glob"
	"github.com/ryanuber/columnize"
	"github.com/siderolabs/gen/maps"

	"github.com/cozystack/rlyehctl/internal/pkg/ui/deploywizard"
	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

func bytesLabel(n int64) string {
	return humanize.IBytes(uint64(max(n, 0)))
}

func stageState(s wizard.StageView) string {
	switch {
	case s.Error:
		return color.RedString("failed")
	case s.Ended:
		return color.GreenString("done")
	case s.Waiting:
		return color.YellowString("waiting for input")
	case s.Started:
		return color.YellowString("running")
	default:
		return "pending"
	}
}

// stageTable renders the classified stages, one per row.
func stageTable(stages wizard.Stages) string {
	lines := []string{"STAGE | STATE"}

	for _, s := range stages.List() {
		lines = append(lines, fmt.Sprintf("%s | %s", s.Label, stageState(s)))
	}

	return columnize.SimpleFormat(lines)
}

func deviceTable(devices []wizard.Device) string {
	lines := []string{"DEVICE | TYPE | SIZE | AVAILABLE"}

	for _, d := range devices {
		lines = append(lines, fmt.Sprintf("%s | %s | %s | %t", d.Path, d.Type, bytesLabel(d.SizeBytes), d.Available))
	}

	return columnize.SimpleFormat(lines)
}

func catalogTable(catalog []wizard.SolutionCandidate) string {
	lines := []string{"SOLUTION | DESCRIPTION | CAPACITY | FEASIBLE"}

	for _, c := range catalog {
		feasible := color.GreenString("yes")
		if !c.Available {
			feasible = color.RedString("no")
		}

		lines = append(lines, fmt.Sprintf("%s | %s | %s | %s", c.Name, c.Label, bytesLabel(c.SizeBytes), feasible))
	}

	return columnize.SimpleFormat(lines)
}

// poolFilter matches pool names against a glob. An empty pattern matches every pool.
func poolFilter(pattern string) (func(string) bool, error) {
	if pattern == "" {
		return func(string) bool { return true }, nil
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pool pattern %q: %w", pattern, err)
	}

	return g.Match, nil
}

// usageTable renders per-pool usage of the pools accepted by match, followed
// by the cluster totals.
func usageTable(stats wizard.UsageStats, match func(string) bool) string {
	names := maps.Keys(stats.Pools)
	slices.Sort(names)

	lines := []string{"POOL | USED | %USED | AVAIL"}

	for _, name := range names {
		if !match(name) {
			continue
		}

		pool := stats.Pools[name]
		lines = append(lines, fmt.Sprintf("%s | %s | %.1f%% | %s",
			name, bytesLabel(pool.Used), pool.PercentUsed*100, bytesLabel(pool.Avail)))
	}

	out := columnize.SimpleFormat(lines)

	return out + fmt.Sprintf("\n\nRaw capacity: %s, raw used: %s, available: %s\n",
		bytesLabel(stats.TotalRawBytes), bytesLabel(stats.TotalUsedRawBytes), bytesLabel(stats.TotalAvailBytes))
}

// resultSummary describes the bootstrapped cluster.
func resultSummary(result *wizard.BootstrapResult) string {
	lines := []string{fmt.Sprintf("FSID: | %s", result.FSID)}

	if result.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("Config: | %s", result.ConfigPath))
	}

	if result.KeyringPath != "" {
		lines = append(lines, fmt.Sprintf("Keyring: | %s", result.KeyringPath))
	}

	if d := result.Dashboard; d != nil {
		lines = append(lines,
			fmt.Sprintf("Dashboard: | %s", deploywizard.DashboardURL(d)),
			fmt.Sprintf("User: | %s", d.User),
			fmt.Sprintf("Password: | %s", d.Password),
		)
	}

	return columnize.SimpleFormat(lines)
}

// progressLabel names what the deployment is doing for the progress bar.
func progressLabel(view wizard.View) string {
	switch {
	case view.Ready:
		return "Ready"
	case view.Failed:
		return view.FailedStage.Label() + " failed"
	case view.AwaitingSolution():
		return "Waiting for a solution"
	case view.AwaitingExports():
		return "Waiting for exports"
	default:
		return wizard.AllStages[view.Step].Label()
	}
}
