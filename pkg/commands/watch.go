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
	"fmt"
	"io"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

const progressRefresh = 250 * time.Millisecond

var watchCmdFlags trackableActionCmdFlags

// watchCmd follows the deployment until it is ready.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the deployment progress until it is ready",
	Long: `Poll the backend status and show the deployment progress. The device
inventory is fetched as soon as the backend waits for a solution.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WithClient(func(ctx context.Context, api wizard.API, logger *zap.Logger) error {
			return trackDeployment(ctx, api, logger, cmd.OutOrStdout(), watchCmdFlags.timeout)
		})
	},
}

func barValue(view wizard.View) int {
	if view.Ready {
		return len(wizard.AllStages) - 1
	}

	return view.Step
}

// trackDeployment polls until the deployment is ready, fails or timeout elapses.
func trackDeployment(ctx context.Context, api wizard.API, logger *zap.Logger, out io.Writer, timeout time.Duration) error {
	reg := prometheus.NewRegistry()

	session, err := sessionBuilder(logger, reg).Build(api, nil)
	if err != nil {
		return err
	}

	controller := session.Controller

	progress := uiprogress.New()
	progress.SetOut(out)
	progress.SetRefreshInterval(progressRefresh)

	bar := progress.AddBar(len(wizard.AllStages) - 1).AppendCompleted()
	bar.PrependFunc(func(*uiprogress.Bar) string {
		return fmt.Sprintf("%-24s", progressLabel(controller.View()))
	})

	progress.Start()
	defer progress.Stop()

	return runSupervised(ctx, logger, reg, func(ctx context.Context) error {
		if timeout > 0 {
			var cancel context.CancelFunc

			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		polled := make(chan error, 1)

		go func() { polled <- controller.Run(ctx) }()

		ticker := time.NewTicker(progressRefresh)
		defer ticker.Stop()

		for {
			view := controller.View()
			_ = bar.Set(barValue(view))

			if view.Failed {
				return fmt.Errorf("deployment failed at stage %s", view.FailedStage)
			}

			select {
			case err := <-polled:
				view = controller.View()
				_ = bar.Set(barValue(view))

				if err == nil && view.Ready {
					return nil
				}

				return fmt.Errorf("deployment is not ready: %w", err)
			case <-ticker.C:
			}
		}
	})
}

func init() {
	watchCmd.Flags().DurationVar(&watchCmdFlags.timeout, "timeout", 30*time.Minute, "time to wait for the deployment to become ready")
	addCommand(watchCmd)
}
