// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=mongo
// +kubebuilder:printcolumn:name="Addon",type=string,JSONPath=`.status.addon`

// MongoDb is the managed MongoDb add-on custom resource.
type MongoDb struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   AddonSpec   `json:"spec,omitempty"`
	Status AddonStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// MongoDbList contains a list of MongoDb resources.
type MongoDbList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MongoDb `json:"items"`
}

// DeepCopyInto copies the receiver into out.
func (in *MongoDb) DeepCopyInto(out *MongoDb) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of the receiver.
func (in *MongoDb) DeepCopy() *MongoDb {
	if in == nil {
		return nil
	}
	out := new(MongoDb)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *MongoDb) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// DeepCopyInto copies the receiver into out.
func (in *MongoDbList) DeepCopyInto(out *MongoDbList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]MongoDb, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of the receiver.
func (in *MongoDbList) DeepCopy() *MongoDbList {
	if in == nil {
		return nil
	}
	out := new(MongoDbList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *MongoDbList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// GetAddonSpec returns the common desired-state shape.
func (in *MongoDb) GetAddonSpec() *AddonSpec { return &in.Spec }

// GetAddonStatus returns the common controller-managed status shape.
func (in *MongoDb) GetAddonStatus() *AddonStatus { return &in.Status }

// SetAddonStatus replaces the controller-managed status shape.
func (in *MongoDb) SetAddonStatus(s AddonStatus) { in.Status = s }
