// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	ctrl "sigs.k8s.io/controller-runtime"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/clevercloud"
	"github.com/clevercloud/clever-operator/internal/kube"
)

// reconcileProvisioned implements states S2 and S3: verify the remote
// add-on still exists, detect and warn on immutable-field edits (§8, P8),
// fetch and project credentials, and keep the payload in sync
// (§4.5, "Credentials projection").
func (r *Reconciler) reconcileProvisioned(ctx context.Context, cro clevercloudv1alpha1.CustomResource) (ctrl.Result, error) {
	org := cro.GetAddonSpec().Organisation
	addonID := cro.GetAddonStatus().AddonID()

	if _, err := r.deps.Vendor.GetAddon(ctx, org, addonID); err != nil {
		if clevercloud.IsNotFound(err) {
			return r.reprovisionAfterExternalDeletion(ctx, cro, addonID)
		}
		return r.handleVendorError(ctx, cro, err)
	}

	if err := r.checkImmutableDrift(ctx, cro); err != nil {
		return ctrl.Result{}, err
	}

	creds, err := r.deps.Vendor.GetCredentials(ctx, org, addonID)
	if err != nil {
		if errors.Is(err, clevercloud.CredentialsPending) {
			return ctrl.Result{RequeueAfter: credentialsRequeue}, nil
		}
		return r.handleVendorError(ctx, cro, err)
	}

	if r.family.PushesVariablesOnDrift() {
		if err := r.pushVariablesIfDrifted(ctx, org, addonID, cro, creds); err != nil {
			return r.handleVendorError(ctx, cro, err)
		}
	}

	projected := r.family.ProjectCredentials(creds)
	result, err := r.deps.Cluster.UpsertChildPayload(ctx, cro, projected)
	if err != nil {
		return ctrl.Result{}, fmt.Errorf("upsert credentials payload: %w", err)
	}

	switch result {
	case kube.UpsertCreated:
		r.deps.Cluster.EmitEvent(cro, corev1.EventTypeNormal, ReasonCredentialsPublished, "credentials payload published")
	case kube.UpsertPatched:
		r.deps.Cluster.EmitEvent(cro, corev1.EventTypeNormal, ReasonDrifted, "credentials payload content repaired")
	case kube.UpsertUnchanged:
		// P5: no Normal event on an idempotent reconcile.
	}

	return ctrl.Result{RequeueAfter: steadyRequeue}, nil
}

// reprovisionAfterExternalDeletion handles the case where the remote
// add-on was deleted out-of-band: clear status.addon and warn, so the next
// reconcile re-enters identity reconciliation and provisions a fresh one
// (spec.md §4.5, "Identity reconciliation", step 1).
func (r *Reconciler) reprovisionAfterExternalDeletion(ctx context.Context, cro clevercloudv1alpha1.CustomResource, staleID string) (ctrl.Result, error) {
	r.deps.Cluster.EmitEvent(cro, corev1.EventTypeWarning, ReasonUpstreamUnavailable, fmt.Sprintf("remote add-on %s no longer exists; re-provisioning", staleID))

	if err := r.deps.Cluster.PatchCROStatus(ctx, cro, func(s *clevercloudv1alpha1.AddonStatus) {
		s.Addon = nil
	}); err != nil {
		if kube.IsConflict(err) {
			return ctrl.Result{Requeue: true}, nil
		}
		return ctrl.Result{}, fmt.Errorf("clear stale addon id: %w", err)
	}
	return ctrl.Result{Requeue: true}, nil
}

// checkImmutableDrift compares the current spec's immutable fields against
// the fingerprint captured at provisioning time and warns once per
// generation on a mismatch, without attempting any vendor-side update
// (spec.md §4.5, "Options/diffing policy"; §8, P8).
func (r *Reconciler) checkImmutableDrift(ctx context.Context, cro clevercloudv1alpha1.CustomResource) error {
	status := cro.GetAddonStatus()
	if status.ObservedGeneration == cro.GetGeneration() {
		return nil
	}

	current := immutableFingerprint(r.family, cro.GetAddonSpec())
	if current != status.ProvisionedFingerprint {
		r.deps.Cluster.EmitEvent(cro, corev1.EventTypeWarning, ReasonSpecImmutable,
			"instance.region, instance.plan and immutable options cannot be changed after provisioning; edit ignored")
	}

	generation := cro.GetGeneration()
	if err := r.deps.Cluster.PatchCROStatus(ctx, cro, func(s *clevercloudv1alpha1.AddonStatus) {
		s.ObservedGeneration = generation
	}); err != nil && !kube.IsConflict(err) {
		return fmt.Errorf("record observed generation: %w", err)
	}
	return nil
}

// pushVariablesIfDrifted pushes the ConfigProvider family's variables map to
// the vendor whenever it differs from the remote value (spec.md §4.5,
// "Options/diffing policy": the only family-level mutable field).
func (r *Reconciler) pushVariablesIfDrifted(ctx context.Context, org, addonID string, cro clevercloudv1alpha1.CustomResource, remote map[string]string) error {
	desired := cro.GetAddonSpec().Variables
	if variablesEqual(desired, remote) {
		return nil
	}
	return r.deps.Vendor.PushVariables(ctx, org, addonID, desired)
}

func variablesEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
