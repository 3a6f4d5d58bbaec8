// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	ctrl "sigs.k8s.io/controller-runtime"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/clevercloud"
)

// unauthorizedRequeue is the fixed backoff for Unauthorized vendor errors:
// don't spin, but keep retrying because credentials might rotate
// (spec.md §4.5, "Failure semantics").
const unauthorizedRequeue = 60 * time.Second

// rateLimitedFallback is used when the vendor returns 429 without a
// Retry-After header.
const rateLimitedFallback = 10 * time.Second

// ReasonVendorRejected is emitted for a Permanent vendor error that is not
// specifically a SpecImmutable violation (bad region/plan code, malformed
// options the schema validator let through, ...).
const ReasonVendorRejected = "VendorRejected"

// handleVendorError maps a C2 taxonomy error onto the failure semantics in
// spec.md §4.5/§7: it emits the matching event (rate-limited to avoid
// flooding for the two "keep retrying" cases) and returns the ctrl.Result/
// error pair the controller-runtime workqueue should act on.
func (r *Reconciler) handleVendorError(ctx context.Context, cro clevercloudv1alpha1.CustomResource, err error) (ctrl.Result, error) {
	if rl, ok := clevercloud.AsRateLimited(err); ok {
		wait := rl.RetryAfter
		if wait <= 0 {
			wait = rateLimitedFallback
		}
		r.emitThrottled(cro, corev1.EventTypeWarning, ReasonRateLimited, "vendor API rate limited")
		return ctrl.Result{RequeueAfter: wait}, nil
	}

	if clevercloud.IsTransient(err) {
		r.emitThrottled(cro, corev1.EventTypeWarning, ReasonUpstreamUnavailable, fmt.Sprintf("vendor API unavailable: %v", err))
		return ctrl.Result{}, err
	}

	if clevercloud.IsUnauthorized(err) {
		r.deps.Cluster.EmitEvent(cro, corev1.EventTypeWarning, "Unauthorized", err.Error())
		return ctrl.Result{RequeueAfter: unauthorizedRequeue}, nil
	}

	if clevercloud.IsPermanent(err) {
		r.deps.Cluster.EmitEvent(cro, corev1.EventTypeWarning, ReasonVendorRejected, err.Error())
		return ctrl.Result{}, nil
	}

	// Malformed or unrecognized: treat as transient so the workqueue retries
	// with backoff rather than the controller spinning without one
	// (spec.md §7, "Cancelled ... treated as transient").
	return ctrl.Result{}, err
}

// emitThrottled emits a Warning event at most once per minute per (object,
// reason), per spec.md §7's "Warning event once per minute to avoid
// flooding" rule for VendorUnavailable.
func (r *Reconciler) emitThrottled(cro clevercloudv1alpha1.CustomResource, eventType, reason, message string) {
	key := cro.GetNamespace() + "/" + cro.GetName() + "/" + reason
	now := time.Now()

	if last, ok := r.lastWarning.Load(key); ok {
		if now.Sub(last.(time.Time)) < time.Minute {
			return
		}
	}
	r.lastWarning.Store(key, now)
	r.deps.Cluster.EmitEvent(cro, eventType, reason, message)
}
