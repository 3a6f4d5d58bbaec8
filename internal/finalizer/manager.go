// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package finalizer implements the Finalizer Manager (spec.md §4.4,
// component C4): it ensures the deletion-guard token is installed on every
// reconciled object and removed only after remote teardown has succeeded.
package finalizer

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/kube"
)

// Manager wraps the Cluster API Gateway's finalizer patch with the
// presence/deletionTimestamp rules from spec.md §4.4.
type Manager struct {
	cluster *kube.Gateway
}

// New builds a Manager over the given Cluster API Gateway.
func New(cluster *kube.Gateway) *Manager {
	return &Manager{cluster: cluster}
}

// Ensure installs the finalizer token on cro if it is absent and the object
// is not already being deleted. It is a no-op (not an error) once the token
// is present, so callers can invoke it on every reconcile of state S0.
func (m *Manager) Ensure(ctx context.Context, cro clevercloudv1alpha1.CustomResource) error {
	if cro.GetDeletionTimestamp() != nil {
		return nil
	}
	if controllerutil.ContainsFinalizer(cro, clevercloudv1alpha1.FinalizerToken) {
		return nil
	}
	return m.cluster.PatchCROFinalizers(ctx, cro, []string{clevercloudv1alpha1.FinalizerToken}, nil)
}

// Release removes the finalizer token. Callers must only invoke this after
// DeleteAddon has returned deleted or already-absent (spec.md §8, P2);
// Release itself does not re-check remote state.
func (m *Manager) Release(ctx context.Context, cro clevercloudv1alpha1.CustomResource) error {
	if !controllerutil.ContainsFinalizer(cro, clevercloudv1alpha1.FinalizerToken) {
		return nil
	}
	return m.cluster.PatchCROFinalizers(ctx, cro, nil, []string{clevercloudv1alpha1.FinalizerToken})
}

// Present reports whether the finalizer token is currently installed.
func Present(cro clevercloudv1alpha1.CustomResource) bool {
	return controllerutil.ContainsFinalizer(cro, clevercloudv1alpha1.FinalizerToken)
}
