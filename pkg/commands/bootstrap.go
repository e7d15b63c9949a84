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

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

var bootstrapCmdFlags trackableActionCmdFlags

// bootstrapCmd starts a new deployment.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Start a new deployment",
	Long:  `Ask the backend to bootstrap a new cluster, optionally following the deployment until it is ready.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WithClient(func(ctx context.Context, api wizard.API, logger *zap.Logger) error {
			chooser := wizard.NewOperationChooser(api, nil, requestTimeout(), logger, nil)
			if err := chooser.ChooseBootstrap(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Bootstrap started."))

			if !bootstrapCmdFlags.wait {
				return nil
			}

			return trackDeployment(ctx, api, logger, cmd.OutOrStdout(), bootstrapCmdFlags.timeout)
		})
	},
}

func init() {
	bootstrapCmdFlags.addTrackActionFlags(bootstrapCmd, false)
	addCommand(bootstrapCmd)
}
