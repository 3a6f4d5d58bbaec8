// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/clevercloud"
)

// reconcileIdentity implements state S1 and the identity-reconciliation
// procedure of spec.md §4.5: it guarantees at-most-one remote add-on per
// CRO uid even across process crashes between CreateAddon succeeding and
// PatchCROStatus succeeding (§8, P7).
func (r *Reconciler) reconcileIdentity(ctx context.Context, cro clevercloudv1alpha1.CustomResource) (ctrl.Result, error) {
	log := logf.FromContext(ctx)
	org := cro.GetAddonSpec().Organisation
	canonical := canonicalName(r.clusterPrefix, cro)

	matches, err := r.deps.Vendor.ListAddonsByName(ctx, org, canonical)
	if err != nil {
		return r.handleVendorError(ctx, cro, err)
	}

	var addonID string
	if len(matches) > 0 {
		addonID = matches[0].ID
		log.Info("adopted existing remote add-on by canonical name", "addon", addonID)
	} else {
		created, err := r.createAddon(ctx, cro, canonical)
		if err != nil {
			if clevercloud.IsConflict(err) {
				// Another create for this canonical name has already landed;
				// the next reconcile will find and adopt it at step 3.
				return ctrl.Result{Requeue: true}, nil
			}
			return r.handleVendorError(ctx, cro, err)
		}
		addonID = created.ID
	}

	fingerprint := immutableFingerprint(r.family, cro.GetAddonSpec())
	generation := cro.GetGeneration()

	if err := r.deps.Cluster.PatchCROStatus(ctx, cro, func(s *clevercloudv1alpha1.AddonStatus) {
		s.Addon = &addonID
		s.ObservedGeneration = generation
		s.ProvisionedFingerprint = fingerprint
	}); err != nil {
		// If this patch fails, the add-on we just created (or adopted) is
		// left dangling with no status.addon; the next reconcile re-derives
		// the same canonical name, lists it, and adopts it here again (§8, P7).
		return ctrl.Result{}, fmt.Errorf("persist addon id: %w", err)
	}

	r.deps.Cluster.EmitEvent(cro, corev1.EventTypeNormal, ReasonProvisioned, fmt.Sprintf("remote add-on %s provisioned", addonID))
	return ctrl.Result{Requeue: true}, nil
}

func (r *Reconciler) createAddon(ctx context.Context, cro clevercloudv1alpha1.CustomResource, canonical string) (*clevercloud.Addon, error) {
	spec := cro.GetAddonSpec()
	providerID := r.family.RemoteProviderID()

	var region, planID string
	if r.family.SupportsInstance() && spec.Instance != nil {
		region = spec.Instance.Region
		resolved, err := r.deps.Vendor.ResolvePlan(ctx, providerID, region, spec.Instance.Plan)
		if err != nil {
			return nil, err
		}
		planID = resolved
	}

	options := spec.Options
	if !r.family.SupportsOptions() {
		options = nil
	}

	return r.deps.Vendor.CreateAddon(ctx, spec.Organisation, providerID, planID, region, canonical, options)
}
