// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package finalizer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/kube"
)

func newManager(t *testing.T, initObjs ...client.Object) *Manager {
	t.Helper()
	s := scheme.Scheme
	require.NoError(t, clevercloudv1alpha1.AddToScheme(s))

	c := fake.NewClientBuilder().
		WithScheme(s).
		WithObjects(initObjs...).
		Build()

	return New(kube.New(c, s, record.NewFakeRecorder(16)))
}

func TestEnsureInstallsFinalizer(t *testing.T) {
	redis := &clevercloudv1alpha1.Redis{ObjectMeta: metav1.ObjectMeta{Name: "redis", Namespace: "default"}}
	m := newManager(t, redis)

	require.NoError(t, m.Ensure(context.Background(), redis))
	assert.True(t, Present(redis))
}

func TestEnsureIsNoopWhenPresent(t *testing.T) {
	redis := &clevercloudv1alpha1.Redis{
		ObjectMeta: metav1.ObjectMeta{Name: "redis", Namespace: "default", Finalizers: []string{clevercloudv1alpha1.FinalizerToken}},
	}
	m := newManager(t, redis)

	require.NoError(t, m.Ensure(context.Background(), redis))
	assert.Len(t, redis.GetFinalizers(), 1)
}

func TestEnsureSkipsWhenDeleting(t *testing.T) {
	now := metav1.NewTime(time.Now())
	redis := &clevercloudv1alpha1.Redis{
		ObjectMeta: metav1.ObjectMeta{
			Name: "redis", Namespace: "default",
			Finalizers:        []string{clevercloudv1alpha1.FinalizerToken},
			DeletionTimestamp: &now,
		},
	}
	m := newManager(t, redis)

	require.NoError(t, m.Ensure(context.Background(), redis))
	assert.True(t, Present(redis))
}

func TestReleaseRemovesFinalizer(t *testing.T) {
	redis := &clevercloudv1alpha1.Redis{
		ObjectMeta: metav1.ObjectMeta{Name: "redis", Namespace: "default", Finalizers: []string{clevercloudv1alpha1.FinalizerToken}},
	}
	m := newManager(t, redis)

	require.NoError(t, m.Release(context.Background(), redis))
	assert.False(t, Present(redis))
}

func TestReleaseIsNoopWhenAbsent(t *testing.T) {
	redis := &clevercloudv1alpha1.Redis{ObjectMeta: metav1.ObjectMeta{Name: "redis", Namespace: "default"}}
	m := newManager(t, redis)

	require.NoError(t, m.Release(context.Background(), redis))
	assert.False(t, Present(redis))
}
