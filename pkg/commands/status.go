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

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cozystack/rlyehctl/internal/pkg/ui/deploywizard"
	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

var statusCmdFlags struct {
	qr bool
}

// statusCmd prints the backend status once.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the deployment status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WithClient(func(ctx context.Context, api wizard.API, logger *zap.Logger) error {
			reply, err := api.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			printStatus(cmd.OutOrStdout(), reply, wizard.NewClassifier(logger, nil).Classify(wizard.Stages{}, reply.Status))

			return nil
		})
	},
}

func printStatus(out io.Writer, reply wizard.StatusReply, stages wizard.Stages) {
	fmt.Fprintf(out, "Status: %s\n\n", wizard.NormalizeStatus(reply.Status))

	if screen, ok := wizard.ScreenFor(reply.Status); ok && screen == wizard.ScreenChooseOperation {
		fmt.Fprintln(out, "No deployment yet, run `rlyehctl bootstrap` to start one.")

		return
	}

	fmt.Fprintln(out, stageTable(stages))

	if reply.Result == nil {
		return
	}

	fmt.Fprintf(out, "\n%s\n", resultSummary(reply.Result))

	if statusCmdFlags.qr && reply.Result.Dashboard != nil {
		fmt.Fprintln(out)
		qrterminal.GenerateHalfBlock(deploywizard.DashboardURL(reply.Result.Dashboard), qrterminal.L, out)
	}
}

func init() {
	statusCmd.Flags().BoolVar(&statusCmdFlags.qr, "qr", false, "print the dashboard address as a QR code")
	addCommand(statusCmd)
}
