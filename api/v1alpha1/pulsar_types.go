// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=pulsar
// +kubebuilder:printcolumn:name="Addon",type=string,JSONPath=`.status.addon`

// Pulsar is the managed Pulsar add-on custom resource.
type Pulsar struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   AddonSpec   `json:"spec,omitempty"`
	Status AddonStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// PulsarList contains a list of Pulsar resources.
type PulsarList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Pulsar `json:"items"`
}

// DeepCopyInto copies the receiver into out.
func (in *Pulsar) DeepCopyInto(out *Pulsar) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of the receiver.
func (in *Pulsar) DeepCopy() *Pulsar {
	if in == nil {
		return nil
	}
	out := new(Pulsar)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *Pulsar) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// DeepCopyInto copies the receiver into out.
func (in *PulsarList) DeepCopyInto(out *PulsarList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]Pulsar, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of the receiver.
func (in *PulsarList) DeepCopy() *PulsarList {
	if in == nil {
		return nil
	}
	out := new(PulsarList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *PulsarList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// GetAddonSpec returns the common desired-state shape.
func (in *Pulsar) GetAddonSpec() *AddonSpec { return &in.Spec }

// GetAddonStatus returns the common controller-managed status shape.
func (in *Pulsar) GetAddonStatus() *AddonStatus { return &in.Status }

// SetAddonStatus replaces the controller-managed status shape.
func (in *Pulsar) SetAddonStatus(s AddonStatus) { in.Status = s }
