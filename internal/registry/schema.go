// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// EmitSchema produces a cluster-compatible structural schema for the given
// family (spec.md §4.1, "schema emitter"). This is consumed by the
// `custom-resource-definition view` CLI subcommand; the concrete schema per
// family is out of scope for the reconciliation core beyond this shared
// shape (spec.md §1, "Out of scope").
func EmitSchema(d FamilyDescriptor) *apiextensionsv1.CustomResourceDefinition {
	required := []string{"organisation"}

	specProps := map[string]apiextensionsv1.JSONSchemaProps{
		"organisation": {
			Type:      "string",
			MinLength: int64Ptr(1),
		},
	}

	if d.SupportsInstance() {
		specProps["instance"] = apiextensionsv1.JSONSchemaProps{
			Type: "object",
			Properties: map[string]apiextensionsv1.JSONSchemaProps{
				"region": {Type: "string"},
				"plan":   {Type: "string"},
			},
		}
	}

	if d.SupportsOptions() {
		specProps["options"] = apiextensionsv1.JSONSchemaProps{
			Type:                 "object",
			AdditionalProperties: &apiextensionsv1.JSONSchemaPropsOrBool{Schema: &apiextensionsv1.JSONSchemaProps{Type: "string"}},
		}
	}

	if d.Name() == "configprovider" {
		specProps["variables"] = apiextensionsv1.JSONSchemaProps{
			Type:                 "object",
			AdditionalProperties: &apiextensionsv1.JSONSchemaPropsOrBool{Schema: &apiextensionsv1.JSONSchemaProps{Type: "string"}},
		}
	}

	statusProps := map[string]apiextensionsv1.JSONSchemaProps{
		"addon": {Type: "string"},
		"provisionedFingerprint": {Type: "string"},
		"observedGeneration": {
			Type:   "integer",
			Format: "int64",
		},
		"conditions": {
			Type: "array",
			Items: &apiextensionsv1.JSONSchemaPropsOrArray{
				Schema: &apiextensionsv1.JSONSchemaProps{
					Type:                   "object",
					XPreserveUnknownFields: boolPtr(true),
				},
			},
		},
	}

	gvk := d.GroupVersionKind()

	crd := &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apiextensions.k8s.io/v1",
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: d.Plural() + "." + gvk.Group,
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: gvk.Group,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Plural:     d.Plural(),
				Kind:       gvk.Kind,
				ShortNames: d.ShortNames(),
			},
			Scope: apiextensionsv1.NamespaceScoped,
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{
				{
					Name:    gvk.Version,
					Served:  true,
					Storage: true,
					Subresources: &apiextensionsv1.CustomResourceSubresources{
						Status: &apiextensionsv1.CustomResourceSubresourceStatus{},
					},
					Schema: &apiextensionsv1.CustomResourceValidation{
						OpenAPIV3Schema: &apiextensionsv1.JSONSchemaProps{
							Type: "object",
							Properties: map[string]apiextensionsv1.JSONSchemaProps{
								"spec": {
									Type:       "object",
									Required:   required,
									Properties: specProps,
								},
								"status": {
									Type:       "object",
									Properties: statusProps,
								},
							},
						},
					},
				},
			},
		},
	}

	return crd
}

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
