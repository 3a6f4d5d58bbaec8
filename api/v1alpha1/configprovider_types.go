// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=cfgp
// +kubebuilder:printcolumn:name="Addon",type=string,JSONPath=`.status.addon`

// ConfigProvider is the managed ConfigProvider add-on custom resource.
type ConfigProvider struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   AddonSpec   `json:"spec,omitempty"`
	Status AddonStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// ConfigProviderList contains a list of ConfigProvider resources.
type ConfigProviderList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ConfigProvider `json:"items"`
}

// DeepCopyInto copies the receiver into out.
func (in *ConfigProvider) DeepCopyInto(out *ConfigProvider) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of the receiver.
func (in *ConfigProvider) DeepCopy() *ConfigProvider {
	if in == nil {
		return nil
	}
	out := new(ConfigProvider)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *ConfigProvider) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// DeepCopyInto copies the receiver into out.
func (in *ConfigProviderList) DeepCopyInto(out *ConfigProviderList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]ConfigProvider, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of the receiver.
func (in *ConfigProviderList) DeepCopy() *ConfigProviderList {
	if in == nil {
		return nil
	}
	out := new(ConfigProviderList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *ConfigProviderList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// GetAddonSpec returns the common desired-state shape.
func (in *ConfigProvider) GetAddonSpec() *AddonSpec { return &in.Spec }

// GetAddonStatus returns the common controller-managed status shape.
func (in *ConfigProvider) GetAddonStatus() *AddonStatus { return &in.Status }

// SetAddonStatus replaces the controller-managed status shape.
func (in *ConfigProvider) SetAddonStatus(s AddonStatus) { in.Status = s }
