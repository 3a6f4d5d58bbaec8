// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package v1alpha1 contains the custom resource types for the clever-operator
// add-on families: PostgreSql, MySql, Redis, MongoDb, ElasticSearch,
// ConfigProvider and Pulsar.
// +kubebuilder:object:generate=true
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupName is the API group served by every family in this package.
const GroupName = "api.clever-cloud.com"

var (
	// GroupVersion is group version used to register these objects.
	GroupVersion = schema.GroupVersion{Group: GroupName, Version: "v1"}

	// GroupVersionBeta is the group version used by families that have not
	// graduated past beta (currently Pulsar only).
	GroupVersionBeta = schema.GroupVersion{Group: GroupName, Version: "v1beta1"}

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme.
	SchemeBuilder = runtime.NewSchemeBuilder(addKnownTypes)

	// AddToScheme adds the types in this group-version to the given scheme.
	AddToScheme = SchemeBuilder.AddToScheme
)

func addKnownTypes(scheme *runtime.Scheme) error {
	scheme.AddKnownTypes(GroupVersion,
		&PostgreSql{}, &PostgreSqlList{},
		&MySql{}, &MySqlList{},
		&Redis{}, &RedisList{},
		&MongoDb{}, &MongoDbList{},
		&ElasticSearch{}, &ElasticSearchList{},
		&ConfigProvider{}, &ConfigProviderList{},
	)
	scheme.AddKnownTypes(GroupVersionBeta,
		&Pulsar{}, &PulsarList{},
	)
	metav1.AddToGroupVersion(scheme, GroupVersion)
	metav1.AddToGroupVersion(scheme, GroupVersionBeta)
	return nil
}
