// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=pg
// +kubebuilder:printcolumn:name="Addon",type=string,JSONPath=`.status.addon`

// PostgreSql is the managed PostgreSQL add-on custom resource.
type PostgreSql struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   AddonSpec   `json:"spec,omitempty"`
	Status AddonStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// PostgreSqlList contains a list of PostgreSql resources.
type PostgreSqlList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []PostgreSql `json:"items"`
}

// DeepCopyInto copies the receiver into out.
func (in *PostgreSql) DeepCopyInto(out *PostgreSql) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of the receiver.
func (in *PostgreSql) DeepCopy() *PostgreSql {
	if in == nil {
		return nil
	}
	out := new(PostgreSql)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *PostgreSql) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// DeepCopyInto copies the receiver into out.
func (in *PostgreSqlList) DeepCopyInto(out *PostgreSqlList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]PostgreSql, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of the receiver.
func (in *PostgreSqlList) DeepCopy() *PostgreSqlList {
	if in == nil {
		return nil
	}
	out := new(PostgreSqlList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *PostgreSqlList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// GetAddonSpec returns the common desired-state shape.
func (in *PostgreSql) GetAddonSpec() *AddonSpec { return &in.Spec }

// GetAddonStatus returns the common controller-managed status shape.
func (in *PostgreSql) GetAddonStatus() *AddonStatus { return &in.Status }

// SetAddonStatus replaces the controller-managed status shape.
func (in *PostgreSql) SetAddonStatus(s AddonStatus) { in.Status = s }
