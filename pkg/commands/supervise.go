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
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thejerf/suture/v4"
	"go.uber.org/zap"
)

// task runs a command's main function under the supervisor. When it returns,
// the whole tree stops and the result is kept for the caller.
type task struct {
	name string
	run  func(ctx context.Context) error

	once sync.Once
	err  error
}

func (t *task) Serve(ctx context.Context) error {
	err := t.run(ctx)
	t.once.Do(func() { t.err = err })

	return suture.ErrTerminateSupervisorTree
}

func (t *task) String() string { return t.name }

// httpService serves a handler until the supervisor stops it.
type httpService struct {
	name    string
	addr    string
	handler http.Handler
	logger  *zap.Logger
}

func (s *httpService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx) //nolint:contextcheck
	}()

	s.logger.Info("listening", zap.String("service", s.name), zap.String("addr", ln.Addr().String()))

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

func (s *httpService) String() string { return s.name }

func metricsService(addr string, reg *prometheus.Registry, logger *zap.Logger) suture.Service {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return &httpService{name: "metrics", addr: addr, handler: mux, logger: logger}
}

// runSupervised runs main together with the optional background services
// and the metrics endpoint when --metrics-addr is set. It returns main's error.
func runSupervised(ctx context.Context, logger *zap.Logger, reg *prometheus.Registry, main func(ctx context.Context) error, services ...suture.Service) error {
	sup := suture.New("rlyehctl", suture.Spec{
		EventHook: func(e suture.Event) {
			logger.Warn("supervisor event", zap.String("event", e.String()))
		},
		Timeout: 5 * time.Second,
	})

	if GlobalArgs.MetricsAddr != "" && reg != nil {
		sup.Add(metricsService(GlobalArgs.MetricsAddr, reg, logger))
	}

	for _, svc := range services {
		sup.Add(svc)
	}

	t := &task{name: "main", run: main}
	sup.Add(t)

	err := sup.Serve(ctx)

	// A main function still running after the supervisor timed out cannot
	// overwrite the result from here on.
	t.once.Do(func() {})

	if t.err != nil {
		return t.err
	}

	if err != nil && !errors.Is(err, suture.ErrTerminateSupervisorTree) && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
