// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package reconcile implements the Reconciler (spec.md §4.5, component
// C5): the per-family state machine that drives a custom resource object
// from observed through provisioned, steady and terminating, tolerating
// partial failure across the vendor and cluster APIs.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/clevercloud"
	"github.com/clevercloud/clever-operator/internal/finalizer"
	"github.com/clevercloud/clever-operator/internal/kube"
	"github.com/clevercloud/clever-operator/internal/registry"
	"github.com/clevercloud/clever-operator/internal/telemetry"
)

// credentialsRequeue is how long a reconcile waits before re-checking
// pending credentials (spec.md §4.5, state S2).
const credentialsRequeue = 15 * time.Second

// steadyRequeue is the periodic drift-revalidation interval once the
// payload is published (spec.md §4.5, state S3).
const steadyRequeue = 30 * time.Second

// reconcileTimeout bounds a single reconcile (spec.md §5, "Suspension
// points").
const reconcileTimeout = 60 * time.Second

// Deps are the process-lived collaborators every family's Reconciler
// shares (spec.md §9, "Cross-component ownership").
type Deps struct {
	Cluster   *kube.Gateway
	Vendor    *clevercloud.Client
	Finalizer *finalizer.Manager
	Metrics   *telemetry.Metrics
	Health    *telemetry.ClusterHealth
}

// Reconciler drives the state machine for exactly one family, parameterized
// by a registry.FamilyDescriptor (spec.md §9, "Dynamic dispatch over
// families").
type Reconciler struct {
	deps          Deps
	family        registry.FamilyDescriptor
	newObject     func() clevercloudv1alpha1.CustomResource
	clusterPrefix string

	lastWarning sync.Map // key -> time.Time, throttles repeat Warning events
}

// New builds a Reconciler for family. newObject must return a fresh, empty
// instance of the family's concrete Go type (e.g. func() clevercloudv1alpha1.CustomResource
// { return &clevercloudv1alpha1.Redis{} }) so the reconciler never needs a
// type switch over families.
func New(deps Deps, family registry.FamilyDescriptor, newObject func() clevercloudv1alpha1.CustomResource, clusterPrefix string) *Reconciler {
	return &Reconciler{deps: deps, family: family, newObject: newObject, clusterPrefix: clusterPrefix}
}

// Reconcile implements sigs.k8s.io/controller-runtime/pkg/reconcile.Reconciler.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, reconcileTimeout)
	defer cancel()

	log := logf.FromContext(ctx).WithValues("family", r.family.Name())
	start := time.Now()

	cro := r.newObject()
	if err := r.deps.Cluster.GetCRO(ctx, cro, req.NamespacedName); err != nil {
		if kube.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		r.deps.Health.RecordFailure()
		return ctrl.Result{}, fmt.Errorf("get cro: %w", err)
	}
	r.deps.Health.RecordSuccess()

	result, err := r.reconcileObject(ctx, cro)

	outcome := telemetry.OutcomeSuccess
	if err != nil {
		outcome = telemetry.OutcomeError
		log.Error(err, "reconcile failed")
	}
	r.deps.Metrics.ObserveReconcile(r.family.Name(), outcome, time.Since(start))

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		r.deps.Cluster.EmitEvent(cro, corev1.EventTypeWarning, "ReconcileTimedOut", "reconcile exceeded its deadline and was cancelled")
		return ctrl.Result{}, fmt.Errorf("reconcile timed out: %w", ctx.Err())
	}

	return result, err
}

func (r *Reconciler) reconcileObject(ctx context.Context, cro clevercloudv1alpha1.CustomResource) (ctrl.Result, error) {
	if cro.GetDeletionTimestamp() != nil {
		return r.reconcileTerminating(ctx, cro)
	}

	if !finalizer.Present(cro) {
		return r.reconcileObserved(ctx, cro)
	}

	if !cro.GetAddonStatus().HasAddon() {
		return r.reconcileIdentity(ctx, cro)
	}

	return r.reconcileProvisioned(ctx, cro)
}

// reconcileObserved implements state S0: install the finalizer and requeue
// immediately so the next pass begins identity reconciliation
// (spec.md §4.5).
func (r *Reconciler) reconcileObserved(ctx context.Context, cro clevercloudv1alpha1.CustomResource) (ctrl.Result, error) {
	if err := r.deps.Finalizer.Ensure(ctx, cro); err != nil {
		if kube.IsConflict(err) {
			return ctrl.Result{Requeue: true}, nil
		}
		return ctrl.Result{}, fmt.Errorf("ensure finalizer: %w", err)
	}
	r.deps.Cluster.EmitEvent(cro, corev1.EventTypeNormal, ReasonClaimed, "finalizer installed")
	return ctrl.Result{Requeue: true}, nil
}

// reconcileTerminating implements state S4: delete the remote add-on
// (treating NotFound as success, per P2) and release the finalizer only
// once that has been confirmed.
func (r *Reconciler) reconcileTerminating(ctx context.Context, cro clevercloudv1alpha1.CustomResource) (ctrl.Result, error) {
	if !finalizer.Present(cro) {
		return ctrl.Result{}, nil
	}

	if cro.GetAddonStatus().HasAddon() {
		org := cro.GetAddonSpec().Organisation
		addonID := cro.GetAddonStatus().AddonID()

		if err := r.deps.Vendor.DeleteAddon(ctx, org, addonID); err != nil && !clevercloud.IsNotFound(err) {
			return r.handleVendorError(ctx, cro, err)
		}
	}

	if err := r.deps.Cluster.DeleteChildPayload(ctx, cro); err != nil {
		return ctrl.Result{}, fmt.Errorf("delete payload: %w", err)
	}

	if err := r.deps.Finalizer.Release(ctx, cro); err != nil {
		if kube.IsConflict(err) {
			return ctrl.Result{Requeue: true}, nil
		}
		return ctrl.Result{}, fmt.Errorf("release finalizer: %w", err)
	}

	r.deps.Cluster.EmitEvent(cro, corev1.EventTypeNormal, ReasonReleased, "remote add-on released")
	return ctrl.Result{}, nil
}
