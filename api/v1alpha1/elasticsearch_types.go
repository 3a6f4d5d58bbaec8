// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=es
// +kubebuilder:printcolumn:name="Addon",type=string,JSONPath=`.status.addon`

// ElasticSearch is the managed ElasticSearch add-on custom resource.
type ElasticSearch struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   AddonSpec   `json:"spec,omitempty"`
	Status AddonStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// ElasticSearchList contains a list of ElasticSearch resources.
type ElasticSearchList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ElasticSearch `json:"items"`
}

// DeepCopyInto copies the receiver into out.
func (in *ElasticSearch) DeepCopyInto(out *ElasticSearch) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of the receiver.
func (in *ElasticSearch) DeepCopy() *ElasticSearch {
	if in == nil {
		return nil
	}
	out := new(ElasticSearch)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *ElasticSearch) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// DeepCopyInto copies the receiver into out.
func (in *ElasticSearchList) DeepCopyInto(out *ElasticSearchList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]ElasticSearch, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of the receiver.
func (in *ElasticSearchList) DeepCopy() *ElasticSearchList {
	if in == nil {
		return nil
	}
	out := new(ElasticSearchList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *ElasticSearchList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// GetAddonSpec returns the common desired-state shape.
func (in *ElasticSearch) GetAddonSpec() *AddonSpec { return &in.Spec }

// GetAddonStatus returns the common controller-managed status shape.
func (in *ElasticSearch) GetAddonStatus() *AddonStatus { return &in.Status }

// SetAddonStatus replaces the controller-managed status shape.
func (in *ElasticSearch) SetAddonStatus(s AddonStatus) { in.Status = s }
