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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

// inventoryCmd prints the scanned devices and the solution catalog.
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Show the storage devices and the available solutions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WithClient(func(ctx context.Context, api wizard.API, logger *zap.Logger) error {
			controller, err := syncController(ctx, api, logger)
			if err != nil {
				return err
			}

			view := controller.View()
			if view.InventoryState != wizard.FlightDone {
				return fmt.Errorf("inventory is not available at status %q", view.Status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, deviceTable(view.Devices))
			fmt.Fprintf(out, "\nRaw capacity: %s\n\n", bytesLabel(view.AvailableRawBytes))
			fmt.Fprintln(out, catalogTable(view.Catalog))

			return nil
		})
	},
}

// syncController builds a session controller and applies the current status
// once, which fetches the inventory when the backend waits for a solution.
func syncController(ctx context.Context, api wizard.API, logger *zap.Logger) (*wizard.Controller, error) {
	session, err := sessionBuilder(logger, nil).Build(api, nil)
	if err != nil {
		return nil, err
	}

	reply, err := api.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	session.Controller.OnStatus(ctx, reply)

	return session.Controller, nil
}

func init() {
	addCommand(inventoryCmd)
}
