// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package kube implements the Cluster API Gateway (spec.md §4.3, component
// C3): an adapter over the cluster API for the operations the reconciler
// needs against a custom resource object and its owned credentials payload.
package kube

import (
	"context"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
)

// CallObserver receives one observation per completed cluster API call. It
// is satisfied by *telemetry.Metrics without this package importing
// telemetry.
type CallObserver interface {
	ObserveClusterCall(action, namespace, outcome string, d time.Duration)
}

// Gateway is a process-lived, concurrency-safe handle on the cluster API,
// shared by every family's reconciler (spec.md §5, "Shared resources").
type Gateway struct {
	client   client.Client
	scheme   *runtime.Scheme
	recorder record.EventRecorder
	metrics  CallObserver
}

// New builds a Gateway over an already-constructed controller-runtime
// client and event recorder, typically both obtained from a ctrl.Manager.
func New(c client.Client, scheme *runtime.Scheme, recorder record.EventRecorder) *Gateway {
	return &Gateway{client: c, scheme: scheme, recorder: recorder}
}

// SetMetrics wires an observer that records one ObserveClusterCall per
// Get/patch this Gateway performs. Optional: a Gateway with no observer set
// behaves exactly as before.
func (g *Gateway) SetMetrics(m CallObserver) {
	g.metrics = m
}

func (g *Gateway) observe(action, namespace string, start time.Time, err error) {
	if g.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	g.metrics.ObserveClusterCall(action, namespace, outcome, time.Since(start))
}

// GetCRO fetches the custom resource identified by key into obj. Returns the
// underlying apierrors.IsNotFound-compatible error on absence; callers use
// client.IgnoreNotFound or apierrors.IsNotFound as appropriate.
func (g *Gateway) GetCRO(ctx context.Context, obj clevercloudv1alpha1.CustomResource, key types.NamespacedName) error {
	start := time.Now()
	err := g.client.Get(ctx, key, obj)
	g.observe("get", key.Namespace, start, err)
	return err
}

// PatchCROFinalizers adds and/or removes finalizer tokens on cro via a
// resourceVersion-guarded merge patch (spec.md §4.3). A conflict is returned
// wrapped with %w, so apierrors.IsConflict (and IsConflict below) still
// matches it; the reconciler requeues and re-reads on the next pass.
func (g *Gateway) PatchCROFinalizers(ctx context.Context, cro clevercloudv1alpha1.CustomResource, add, remove []string) error {
	start := time.Now()
	before := cro.DeepCopyObject().(client.Object)

	finalizers := cro.GetFinalizers()
	finalizers = withAdded(finalizers, add)
	finalizers = withRemoved(finalizers, remove)
	cro.SetFinalizers(finalizers)

	err := g.client.Patch(ctx, cro, client.MergeFromWithOptions(before, client.MergeFromWithOptimisticLock{}))
	g.observe("patch-finalizers", cro.GetNamespace(), start, err)
	if err != nil {
		return fmt.Errorf("kube: patch finalizers: %w", err)
	}
	return nil
}

// PatchCROStatus applies mutate to a copy of cro's status and patches the
// status subresource, which does not bump generation (spec.md §4.3). Like
// PatchCROFinalizers, the patch is resourceVersion-guarded.
func (g *Gateway) PatchCROStatus(ctx context.Context, cro clevercloudv1alpha1.CustomResource, mutate func(*clevercloudv1alpha1.AddonStatus)) error {
	start := time.Now()
	before := cro.DeepCopyObject().(client.Object)

	status := *cro.GetAddonStatus()
	mutate(&status)
	cro.SetAddonStatus(status)

	err := g.client.Status().Patch(ctx, cro, client.MergeFromWithOptions(before, client.MergeFromWithOptimisticLock{}))
	g.observe("patch-status", cro.GetNamespace(), start, err)
	if err != nil {
		return fmt.Errorf("kube: patch status: %w", err)
	}
	return nil
}

// EmitEvent records a Normal or Warning event against cro (spec.md §4.3).
func (g *Gateway) EmitEvent(cro runtime.Object, eventType, reason, message string) {
	g.recorder.Event(cro, eventType, reason, message)
}

// IsConflict reports whether err is a resourceVersion conflict, i.e. the
// caller should re-read and retry. The reconciler answers a conflict by
// requeueing the key, so the next pass re-reads the object; it does not
// retry the patch in place, and sets no bound on the number of attempts.
func IsConflict(err error) bool {
	return apierrors.IsConflict(err)
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	return apierrors.IsNotFound(err)
}

func withAdded(finalizers, add []string) []string {
	for _, a := range add {
		if !contains(finalizers, a) {
			finalizers = append(finalizers, a)
		}
	}
	return finalizers
}

func withRemoved(finalizers, remove []string) []string {
	if len(remove) == 0 {
		return finalizers
	}
	out := make([]string, 0, len(finalizers))
	for _, f := range finalizers {
		if !contains(remove, f) {
			out = append(out, f)
		}
	}
	return out
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}

// secretName computes the deterministic credentials payload name for a CRO
// (spec.md §3, P4).
func secretName(cro client.Object) string {
	return cro.GetName() + "-secrets"
}
