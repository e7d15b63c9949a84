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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/cozystack/rlyehctl/internal/pkg/simulator"
)

var simulateCmdFlags struct {
	listen string
	step   time.Duration
}

// simulateCmd runs a development backend that walks through a deployment.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulated backend for development",
	Long: `Serve the backend REST API from an in-memory appliance that advances one
status every step and waits for the same user input as a real deployment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := commandLogger("")
		if err != nil {
			return err
		}

		defer logger.Sync() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if GlobalArgs.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		backend := simulator.NewBackend(nil, logger.Named("backend"))
		api := &httpService{
			name:    "api",
			addr:    simulateCmdFlags.listen,
			handler: simulator.NewRouter(backend, logger.Named("http")),
			logger:  logger,
		}

		err = runSupervised(ctx, logger, nil, func(ctx context.Context) error {
			return backend.Run(ctx, nil, simulateCmdFlags.step)
		}, api)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateCmdFlags.listen, "listen", "127.0.0.1:1337", "address to serve the API on")
	simulateCmd.Flags().DurationVar(&simulateCmdFlags.step, "step", 2*time.Second, "time between status changes")
	addCommand(simulateCmd)
}
