// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// AddonInstance pins the add-on to a vendor region and plan. Both fields are
// immutable after the owning CRO has been provisioned (spec.md §4.5,
// "Options/diffing policy"): the controller warns and ignores edits rather
// than attempting an in-place resize.
type AddonInstance struct {
	// Region is the vendor region code (e.g. "par", "mtl").
	// +kubebuilder:validation:MinLength=1
	Region string `json:"region,omitempty"`

	// Plan is the vendor plan code (e.g. "s_mono", "m_mono").
	Plan string `json:"plan,omitempty"`
}

// DeepCopyInto copies the receiver into out.
func (in *AddonInstance) DeepCopyInto(out *AddonInstance) {
	*out = *in
}

// AddonSpec is the common desired-state shape shared by every add-on family.
// Per spec.md §3, this is frozen user intent: organisation, an optional
// instance pin, an optional options map (family-specific knobs such as
// version or encryption, carried as strings on the wire the same way the
// original implementation serializes them) and an opaque variables map used
// only by the ConfigProvider family.
type AddonSpec struct {
	// Organisation is the vendor tenant identifier this add-on is created
	// under. Opaque to the controller.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	Organisation string `json:"organisation"`

	// Instance carries the region/plan pin. Omitted for families that do
	// not support instance selection (see FamilyDescriptor.SupportsInstance).
	// +optional
	Instance *AddonInstance `json:"instance,omitempty"`

	// Options carries family-specific knobs (version, encryption, feature
	// toggles, ...), represented as strings on the wire. Immutable after
	// provisioning except where a family descriptor states otherwise.
	// +optional
	Options map[string]string `json:"options,omitempty"`

	// Variables is the opaque configuration map used by the ConfigProvider
	// family. Pushed to the vendor on every reconcile when it drifts from
	// the remote value (spec.md §4.5, "Options/diffing policy").
	// +optional
	Variables map[string]string `json:"variables,omitempty"`
}

// DeepCopyInto copies the receiver into out.
func (in *AddonSpec) DeepCopyInto(out *AddonSpec) {
	*out = *in
	if in.Instance != nil {
		out.Instance = new(AddonInstance)
		in.Instance.DeepCopyInto(out.Instance)
	}
	if in.Options != nil {
		out.Options = make(map[string]string, len(in.Options))
		for k, v := range in.Options {
			out.Options[k] = v
		}
	}
	if in.Variables != nil {
		out.Variables = make(map[string]string, len(in.Variables))
		for k, v := range in.Variables {
			out.Variables[k] = v
		}
	}
}

// AddonStatus is the common controller-managed status shape. Addon is the
// authoritative "has a remote twin?" signal (spec.md §3, invariant 1).
type AddonStatus struct {
	// Addon is the remote add-on identifier once provisioning has been
	// acknowledged. Nil means provisioning has not yet been acknowledged.
	// +optional
	Addon *string `json:"addon,omitempty"`

	// Conditions carries extended, non-mandatory status detail. The
	// controller may extend status without breaking older clients
	// (spec.md §3).
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// ObservedGeneration is the generation most recently acted on by the
	// controller, used to detect spec edits that still need handling.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// ProvisionedFingerprint is a hash of the immutable fields (instance
	// region/plan, immutable option keys) as they were at provisioning
	// time. Used to detect an edit to one of those fields on a later
	// reconcile without having to keep the original spec around
	// (spec.md §4.5, "Options/diffing policy"; §8, P8).
	// +optional
	ProvisionedFingerprint string `json:"provisionedFingerprint,omitempty"`
}

// DeepCopyInto copies the receiver into out.
func (in *AddonStatus) DeepCopyInto(out *AddonStatus) {
	*out = *in
	if in.Addon != nil {
		out.Addon = new(string)
		*out.Addon = *in.Addon
	}
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

// HasAddon reports whether provisioning has been acknowledged.
func (s *AddonStatus) HasAddon() bool {
	return s.Addon != nil && *s.Addon != ""
}

// AddonID returns the remote add-on identifier, or the empty string.
func (s *AddonStatus) AddonID() string {
	if s.Addon == nil {
		return ""
	}
	return *s.Addon
}

// FinalizerToken is the deletion-guard token installed by the Finalizer
// Manager (spec.md §4.4). A single, unqualified token is used across every
// family; see DESIGN.md for why this Open Question was resolved this way.
const FinalizerToken = "api.clever-cloud.com/finalizer"
