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
	"context"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cozystack/rlyehctl/internal/pkg/ui/deploywizard"
	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

// interactiveLogFile keeps log output away from the terminal UI.
const interactiveLogFile = "rlyehctl.log"

var interactiveCmdFlags struct {
	interval time.Duration
	timeout  time.Duration
}

// interactiveCmd starts terminal TUI for the deployment wizard.
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Run the deployment wizard in the terminal",
	Long: `Start a terminal-based UI (TUI) that walks through the deployment:
choosing the operation, following the stages, picking the storage layout,
configuring the exports and showing the usage dashboard. Falls back to
'watch' when the output is not a terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fd := os.Stdout.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return WithClient(func(ctx context.Context, api wizard.API, logger *zap.Logger) error {
				logger.Info("output is not a terminal, following the deployment instead")

				return trackDeployment(ctx, api, logger, cmd.OutOrStdout(), interactiveCmdFlags.timeout)
			})
		}

		return withClientLogging(interactiveLogFile, func(ctx context.Context, api wizard.API, logger *zap.Logger) error {
			reg := prometheus.NewRegistry()

			w, err := deploywizard.New(api, sessionBuilder(logger, reg), deploywizard.Options{
				Logger:          logger,
				RefreshInterval: interactiveCmdFlags.interval,
				StartupTimeout:  interactiveCmdFlags.timeout,
			})
			if err != nil {
				return err
			}

			return runSupervised(ctx, logger, reg, w.Run)
		})
	},
}

func init() {
	interactiveCmd.Flags().DurationVarP(&interactiveCmdFlags.interval, "update-interval", "d", deploywizard.DefaultRefreshInterval, "interval between screen updates")
	interactiveCmd.Flags().DurationVar(&interactiveCmdFlags.timeout, "timeout", deploywizard.DefaultStartupTimeout, "time to wait for the backend to come up")
	addCommand(interactiveCmd)
}
