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

var solutionCmd = &cobra.Command{
	Use:   "solution",
	Short: "Manage the storage layout",
}

// solutionAcceptCmd selects and submits a solution candidate.
var solutionAcceptCmd = &cobra.Command{
	Use:   "accept NAME",
	Short: "Accept a storage layout (raid0 or raid1)",
	Args:  cobra.ExactArgs(1),
	ValidArgs: []string{
		wizard.SolutionRaid0,
		wizard.SolutionRaid1,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return WithClient(func(ctx context.Context, api wizard.API, logger *zap.Logger) error {
			controller, err := syncController(ctx, api, logger)
			if err != nil {
				return err
			}

			view := controller.View()
			if !view.AwaitingSolution() {
				return fmt.Errorf("backend is not waiting for a solution at status %q", view.Status)
			}

			if _, err := wizard.ValidateSolutionName(args[0], view.Catalog); err != nil {
				return err
			}

			selector := controller.Solutions()
			selector.Select(args[0])

			if err := selector.Accept(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Solution %s accepted.", args[0]))

			return nil
		})
	},
}

func init() {
	solutionCmd.AddCommand(solutionAcceptCmd)
	addCommand(solutionCmd)
}
