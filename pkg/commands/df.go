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

var dfCmdFlags struct {
	pool string
}

// dfCmd prints the storage usage.
var dfCmd = &cobra.Command{
	Use:   "df",
	Short: "Show the storage usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		match, err := poolFilter(dfCmdFlags.pool)
		if err != nil {
			return err
		}

		return WithClient(func(ctx context.Context, api wizard.API, logger *zap.Logger) error {
			stats, err := api.Usage(ctx)
			if err != nil {
				return fmt.Errorf("failed to get usage: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), usageTable(stats, match))

			return nil
		})
	},
}

func init() {
	dfCmd.Flags().StringVar(&dfCmdFlags.pool, "pool", "", "only show pools matching the glob pattern")
	addCommand(dfCmd)
}
