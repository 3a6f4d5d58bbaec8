// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
)

func newTestGateway(t *testing.T, initObjs ...client.Object) *Gateway {
	t.Helper()
	s := scheme.Scheme
	require.NoError(t, clevercloudv1alpha1.AddToScheme(s))

	c := fake.NewClientBuilder().
		WithScheme(s).
		WithStatusSubresource(&clevercloudv1alpha1.Redis{}).
		WithObjects(initObjs...).
		Build()

	return New(c, s, record.NewFakeRecorder(16))
}

func newTestRedis(name string) *clevercloudv1alpha1.Redis {
	return &clevercloudv1alpha1.Redis{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec:       clevercloudv1alpha1.AddonSpec{Organisation: "orga_AAAA"},
	}
}

func TestPatchCROFinalizersAddsOnce(t *testing.T) {
	redis := newTestRedis("redis")
	g := newTestGateway(t, redis)

	require.NoError(t, g.PatchCROFinalizers(context.Background(), redis, []string{clevercloudv1alpha1.FinalizerToken}, nil))
	assert.Equal(t, []string{clevercloudv1alpha1.FinalizerToken}, redis.GetFinalizers())

	require.NoError(t, g.PatchCROFinalizers(context.Background(), redis, []string{clevercloudv1alpha1.FinalizerToken}, nil))
	assert.Len(t, redis.GetFinalizers(), 1)
}

func TestPatchCROStatusSetsAddon(t *testing.T) {
	redis := newTestRedis("redis")
	g := newTestGateway(t, redis)

	id := "addon_123"
	require.NoError(t, g.PatchCROStatus(context.Background(), redis, func(s *clevercloudv1alpha1.AddonStatus) {
		s.Addon = &id
	}))
	assert.True(t, redis.GetAddonStatus().HasAddon())
	assert.Equal(t, "addon_123", redis.GetAddonStatus().AddonID())
}

func TestUpsertChildPayloadCreates(t *testing.T) {
	redis := newTestRedis("redis")
	g := newTestGateway(t, redis)

	result, err := g.UpsertChildPayload(context.Background(), redis, map[string][]byte{"REDIS_HOST": []byte("h")})
	require.NoError(t, err)
	assert.Equal(t, UpsertCreated, result)

	secret := &corev1.Secret{}
	require.NoError(t, g.client.Get(context.Background(), types.NamespacedName{Namespace: "default", Name: "redis-secrets"}, secret))
	assert.Equal(t, []byte("h"), secret.Data["REDIS_HOST"])
	require.Len(t, secret.OwnerReferences, 1)
	assert.True(t, *secret.OwnerReferences[0].Controller)
	assert.True(t, *secret.OwnerReferences[0].BlockOwnerDeletion)
}

func TestUpsertChildPayloadPatchesOnDrift(t *testing.T) {
	redis := newTestRedis("redis")
	g := newTestGateway(t, redis)
	ctx := context.Background()

	_, err := g.UpsertChildPayload(ctx, redis, map[string][]byte{"REDIS_HOST": []byte("h")})
	require.NoError(t, err)

	result, err := g.UpsertChildPayload(ctx, redis, map[string][]byte{"REDIS_HOST": []byte("h2")})
	require.NoError(t, err)
	assert.Equal(t, UpsertPatched, result)

	secret := &corev1.Secret{}
	require.NoError(t, g.client.Get(ctx, types.NamespacedName{Namespace: "default", Name: "redis-secrets"}, secret))
	assert.Equal(t, []byte("h2"), secret.Data["REDIS_HOST"])
}

func TestUpsertChildPayloadUnchanged(t *testing.T) {
	redis := newTestRedis("redis")
	g := newTestGateway(t, redis)
	ctx := context.Background()

	_, err := g.UpsertChildPayload(ctx, redis, map[string][]byte{"REDIS_HOST": []byte("h")})
	require.NoError(t, err)

	result, err := g.UpsertChildPayload(ctx, redis, map[string][]byte{"REDIS_HOST": []byte("h")})
	require.NoError(t, err)
	assert.Equal(t, UpsertUnchanged, result)
}
