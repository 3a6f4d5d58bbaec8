// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	_ "k8s.io/client-go/plugin/pkg/client/auth"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/clevercloud"
	"github.com/clevercloud/clever-operator/internal/config"
	"github.com/clevercloud/clever-operator/internal/controller"
	"github.com/clevercloud/clever-operator/internal/registry"
)

// shutdownGrace is the window a reconcile in flight is given to return once
// a shutdown signal arrives (spec.md §5, "Cancellation").
const shutdownGrace = 25 * time.Second

var scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(clevercloudv1alpha1.AddToScheme(scheme))
}

func newRunCmd() *cobra.Command {
	var configPath string
	var clusterPrefix string
	var workersPerFamily int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the clever-operator controller manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperator(cmd.Context(), configPath, clusterPrefix, workersPerFamily)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config.{toml,yaml,json}; overrides the default search paths")
	cmd.Flags().StringVar(&clusterPrefix, "cluster-prefix", "clever-operator", "prefix used when deriving a remote add-on's canonical name")
	cmd.Flags().IntVar(&workersPerFamily, "workers-per-family", 0, "concurrent reconciles per family (0 = default)")
	return cmd
}

func runOperator(ctx context.Context, configPath, clusterPrefix string, workersPerFamily int) error {
	ctrl.SetLogger(zap.New(zap.UseDevMode(false)))
	setupLog := ctrl.Log.WithName("setup")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	vendor, err := clevercloud.New(cfg.API.Endpoint, clevercloud.Credentials{
		Token:          cfg.API.Token,
		Secret:         cfg.API.Secret,
		ConsumerKey:    cfg.API.ConsumerKey,
		ConsumerSecret: cfg.API.ConsumerSecret,
	}, http.DefaultClient)
	if err != nil {
		return err
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme: scheme,
		// A single listener serves both /healthz and /metrics (spec.md §7,
		// "one HTTP listener exposes /metrics and /healthz"); the manager's
		// own metrics and health-probe servers are disabled here and
		// replaced below.
		Metrics:                 metricsserver.Options{BindAddress: "0"},
		HealthProbeBindAddress:  "0",
		GracefulShutdownTimeout: func() *time.Duration { d := shutdownGrace; return &d }(),
	})
	if err != nil {
		return &runtimeError{err: fmt.Errorf("start manager: %w", err)}
	}

	reg := registry.New()
	deps, err := controller.SetupAll(mgr, vendor, controller.DefaultBindings(reg), controller.Options{
		WorkersPerFamily: workersPerFamily,
		ClusterPrefix:    clusterPrefix,
	})
	if err != nil {
		return &runtimeError{err: fmt.Errorf("setup controllers: %w", err)}
	}

	telemetrySrv := newTelemetryServer(cfg.Operator.Listen, deps.Health.Check)
	go func() {
		if err := telemetrySrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			setupLog.Error(err, "telemetry listener stopped")
		}
	}()

	signalCtx := ctrl.SetupSignalHandler()
	setupLog.Info("starting controller manager", "listen", cfg.Operator.Listen)
	if err := mgr.Start(signalCtx); err != nil {
		return &runtimeError{err: fmt.Errorf("run manager: %w", err)}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return telemetrySrv.Shutdown(shutdownCtx)
}

// newTelemetryServer builds the single HTTP listener spec.md §7 names,
// combining the Prometheus exposition format with a liveness/readiness
// handler backed by checker.
func newTelemetryServer(addr string, checker healthz.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(ctrlmetrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := checker(r); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return &http.Server{Addr: addr, Handler: mux}
}
