// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// CustomResource is the capability set the reconciler (C5) needs from any
// of the seven family types. It lets the reconciliation core stay
// parametric over the concrete Go type the way it is already parametric
// over the family descriptor (spec.md §9, "Dynamic dispatch over families").
type CustomResource interface {
	metav1.Object
	runtime.Object

	// GetAddonSpec returns the common desired-state shape.
	GetAddonSpec() *AddonSpec
	// GetAddonStatus returns the common controller-managed status shape.
	GetAddonStatus() *AddonStatus
	// SetAddonStatus replaces the controller-managed status shape.
	SetAddonStatus(AddonStatus)
}
