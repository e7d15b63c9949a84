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
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cozystack/rlyehctl/internal/pkg/simulator"
	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

func resetGlobals(t *testing.T) {
	t.Helper()

	savedArgs, savedConfig := GlobalArgs, Config

	t.Cleanup(func() {
		GlobalArgs, Config = savedArgs, savedConfig
	})
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger("loud", "")
	assert.ErrorContains(t, err, `invalid log level "loud"`)

	file := filepath.Join(t.TempDir(), "rlyehctl.log")

	logger, err := NewLogger("debug", file)
	require.NoError(t, err)

	logger.Debug("written to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestSettingsPrecedence(t *testing.T) {
	resetGlobals(t)

	GlobalArgs.Endpoint, Config.GlobalOptions.Endpoint = "", ""
	GlobalArgs.Interval, Config.PollOptions.IntervalDuration = 0, 0
	assert.Equal(t, DefaultEndpoint, endpoint())
	assert.Equal(t, wizard.DefaultPollInterval, pollInterval())

	Config.GlobalOptions.Endpoint = "http://from-config"
	Config.PollOptions.IntervalDuration = 2 * time.Second
	assert.Equal(t, "http://from-config", endpoint())
	assert.Equal(t, 2*time.Second, pollInterval())

	GlobalArgs.Endpoint = "http://from-flag"
	GlobalArgs.Interval = time.Second
	assert.Equal(t, "http://from-flag", endpoint())
	assert.Equal(t, time.Second, pollInterval())
}

func TestApplyConfigDefaultsRejectsBadDurations(t *testing.T) {
	resetGlobals(t)

	Config.PollOptions.Interval = "soon"
	assert.ErrorContains(t, ApplyConfigDefaults(), "pollOptions.interval")

	Config.PollOptions.Interval = ""
	Config.PollOptions.RequestTimeout = "later"
	assert.ErrorContains(t, ApplyConfigDefaults(), "pollOptions.requestTimeout")
}

func TestCommandsAgainstSimulator(t *testing.T) {
	resetGlobals(t)
	disableColor(t)
	gin.SetMode(gin.TestMode)

	backend := simulator.NewBackend(nil, nil)
	srv := httptest.NewServer(simulator.NewRouter(backend, nil))
	defer srv.Close()

	GlobalArgs.Endpoint = srv.URL
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	api, err := newAPI(logger)
	require.NoError(t, err)

	for range len(simulator.Script) {
		backend.Advance()
	}

	var out bytes.Buffer

	reply, err := api.Status(ctx)
	require.NoError(t, err)
	printStatus(&out, reply, wizard.Classify(wizard.Stages{}, reply.Status))
	assert.Contains(t, out.String(), "rlyehctl bootstrap")

	require.NoError(t, wizard.NewOperationChooser(api, nil, time.Second, logger, nil).ChooseBootstrap(ctx))

	for range len(simulator.Script) {
		backend.Advance()
	}

	controller, err := syncController(ctx, api, logger)
	require.NoError(t, err)

	view := controller.View()
	require.True(t, view.AwaitingSolution())
	assert.Len(t, view.Devices, 3)

	out.Reset()
	reply, err = api.Status(ctx)
	require.NoError(t, err)
	printStatus(&out, reply, wizard.Classify(wizard.Stages{}, reply.Status))
	assert.Contains(t, out.String(), "inventory_wait")
	assert.Contains(t, out.String(), "FSID:")
	assert.Contains(t, out.String(), "https://localhost:8443")
}
