// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package controller implements the Controller Runtime Binding (spec.md
// §4.6, component C6): it registers one controller-runtime controller per
// add-on family, each watching its custom resource kind and the Secret it
// owns, and driving a *reconcile.Reconciler sized and backed off the way
// spec.md §4.6 and §7 describe.
package controller

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/controller"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/clevercloud"
	"github.com/clevercloud/clever-operator/internal/finalizer"
	"github.com/clevercloud/clever-operator/internal/kube"
	"github.com/clevercloud/clever-operator/internal/reconcile"
	"github.com/clevercloud/clever-operator/internal/registry"
	"github.com/clevercloud/clever-operator/internal/telemetry"
)

// rateLimiterBaseDelay and rateLimiterMaxDelay bound the exponential
// workqueue backoff applied to a family's failing reconciles (spec.md §4.6,
// "retry backoff 250ms base, 5 minute cap").
const (
	rateLimiterBaseDelay = 250 * time.Millisecond
	rateLimiterMaxDelay  = 5 * time.Minute
)

// defaultWorkersPerFamily is the number of concurrent reconciles allowed
// for a single family's controller when Options.WorkersPerFamily is zero
// (spec.md §4.6, "N workers per family, configurable, default 2").
const defaultWorkersPerFamily = 2

// Binding pairs a family's descriptor with a constructor for an empty
// instance of its concrete custom-resource type, so SetupFamily never has
// to special-case a family by name (spec.md §9, "Dynamic dispatch over
// families").
type Binding struct {
	Family    registry.FamilyDescriptor
	NewObject func() clevercloudv1alpha1.CustomResource
}

// DefaultBindings returns the Binding for every family known to reg, in the
// registry's deterministic name order.
func DefaultBindings(reg *registry.Registry) []Binding {
	ctors := map[string]func() clevercloudv1alpha1.CustomResource{
		"postgresql":     func() clevercloudv1alpha1.CustomResource { return &clevercloudv1alpha1.PostgreSql{} },
		"mysql":          func() clevercloudv1alpha1.CustomResource { return &clevercloudv1alpha1.MySql{} },
		"redis":          func() clevercloudv1alpha1.CustomResource { return &clevercloudv1alpha1.Redis{} },
		"mongodb":        func() clevercloudv1alpha1.CustomResource { return &clevercloudv1alpha1.MongoDb{} },
		"elasticsearch":  func() clevercloudv1alpha1.CustomResource { return &clevercloudv1alpha1.ElasticSearch{} },
		"configprovider": func() clevercloudv1alpha1.CustomResource { return &clevercloudv1alpha1.ConfigProvider{} },
		"pulsar":         func() clevercloudv1alpha1.CustomResource { return &clevercloudv1alpha1.Pulsar{} },
	}

	var out []Binding
	for _, family := range reg.All() {
		ctor, ok := ctors[family.Name()]
		if !ok {
			continue
		}
		out = append(out, Binding{Family: family, NewObject: ctor})
	}
	return out
}

// Options configures the controllers SetupFamily registers.
type Options struct {
	// WorkersPerFamily is MaxConcurrentReconciles for each family's
	// controller. Zero means defaultWorkersPerFamily.
	WorkersPerFamily int

	// ClusterPrefix namespaces the canonical remote add-on name derived
	// from each CRO (spec.md §4.5, "Identity reconciliation"), so two
	// clusters pointed at the same vendor organisation never collide.
	ClusterPrefix string
}

// sharedRateLimiter combines an exponential per-item backoff with an
// overall token-bucket ceiling, the same two-limiter composition used for
// a family controller that fronts a rate-limited external API.
func sharedRateLimiter() workqueue.TypedRateLimiter[ctrl.Request] {
	return workqueue.NewTypedMaxOfRateLimiter(
		workqueue.NewTypedItemExponentialFailureRateLimiter[ctrl.Request](rateLimiterBaseDelay, rateLimiterMaxDelay),
		&workqueue.TypedBucketRateLimiter[ctrl.Request]{Limiter: rate.NewLimiter(rate.Limit(10), 100)},
	)
}

// SetupFamily registers a controller for a single Binding with mgr, wiring
// its *reconcile.Reconciler from shared deps. It is exported so tests and
// alternative entry points can register a subset of families.
func SetupFamily(mgr ctrl.Manager, deps reconcile.Deps, binding Binding, opts Options) error {
	workers := opts.WorkersPerFamily
	if workers <= 0 {
		workers = defaultWorkersPerFamily
	}

	r := reconcile.New(deps, binding.Family, binding.NewObject, opts.ClusterPrefix)

	obj := binding.NewObject()
	err := ctrl.NewControllerManagedBy(mgr).
		For(obj).
		Owns(&corev1.Secret{}).
		WithOptions(controller.Options{
			MaxConcurrentReconciles: workers,
			RateLimiter:             sharedRateLimiter(),
		}).
		Named(binding.Family.Name()).
		Complete(r)
	if err != nil {
		return fmt.Errorf("setup %s controller: %w", binding.Family.Name(), err)
	}
	return nil
}

// SetupAll registers a controller for every Binding in bindings, sharing
// the same process-lived Gateway, vendor Client, finalizer Manager and
// telemetry collectors across all families (spec.md §9, "Cross-component
// ownership"). It returns the shared Deps so the caller can wire the
// /healthz and /metrics listener off the same ClusterHealth and Metrics
// instances the reconcilers report into.
func SetupAll(mgr ctrl.Manager, vendor *clevercloud.Client, bindings []Binding, opts Options) (reconcile.Deps, error) {
	cluster := kube.New(mgr.GetClient(), mgr.GetScheme(), mgr.GetEventRecorderFor("clever-operator"))
	metrics := telemetry.New()
	cluster.SetMetrics(metrics)
	vendor.SetMetrics(metrics)

	deps := reconcile.Deps{
		Cluster:   cluster,
		Vendor:    vendor,
		Finalizer: finalizer.New(cluster),
		Metrics:   metrics,
		Health:    telemetry.NewClusterHealth(30 * time.Second),
	}

	for _, binding := range bindings {
		if err := SetupFamily(mgr, deps, binding, opts); err != nil {
			return reconcile.Deps{}, err
		}
	}
	return deps, nil
}
