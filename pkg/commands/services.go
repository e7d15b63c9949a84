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
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

var servicesSetupCmdFlags struct {
	exports []string
}

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Manage the file services",
}

// servicesSetupCmd confirms the NFS exports.
var servicesSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the NFS exports",
	Long:  `Validate the export names, drop duplicates and submit them to the backend.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WithClient(func(ctx context.Context, api wizard.API, logger *zap.Logger) error {
			controller, err := syncController(ctx, api, logger)
			if err != nil {
				return err
			}

			view := controller.View()
			if !view.AwaitingExports() {
				return fmt.Errorf("backend is not waiting for services at status %q", view.Status)
			}

			exports := controller.Exports()
			if err := addExports(exports, servicesSetupCmdFlags.exports, logger); err != nil {
				return err
			}

			if err := exports.Confirm(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Exports configured: %s", strings.Join(exports.Names(), ", ")))

			return nil
		})
	},
}

// addExports adds every name to the set. Duplicates are skipped; any other
// invalid name fails the whole set.
func addExports(exports *wizard.ServiceExportCoordinator, names []string, logger *zap.Logger) error {
	for _, name := range names {
		if err := wizard.ValidateExportName(name, exports.Names()); err != nil {
			if errors.Is(err, &wizard.AppError{Code: wizard.CodeDuplicateExportName}) {
				logger.Warn("skipping duplicate export", zap.String("export", name))

				continue
			}

			return err
		}

		exports.Add(name)
	}

	return nil
}

func init() {
	servicesSetupCmd.Flags().StringSliceVar(&servicesSetupCmdFlags.exports, "export", nil, "NFS export name (can be repeated)")
	servicesCmd.AddCommand(servicesSetupCmd)
	addCommand(servicesCmd)
}
