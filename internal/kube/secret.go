// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package kube

import (
	"bytes"
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// UpsertResult reports whether UpsertChildPayload created a new payload,
// patched an existing one because its content had drifted, or left an
// already-identical payload untouched.
type UpsertResult int

const (
	UpsertUnchanged UpsertResult = iota
	UpsertCreated
	UpsertPatched
)

// UpsertChildPayload ensures the credentials payload for cro exists and
// mirrors data (spec.md §3, "Credentials Payload"; §4.3). The payload is
// owned by cro with controller=true, blockOwnerDeletion=true (P3), named
// deterministically (P4), and patched rather than deleted-and-recreated on
// drift so mounted consumers observe the new content via normal cluster
// propagation (spec.md §4.5, "Credentials projection").
func (g *Gateway) UpsertChildPayload(ctx context.Context, cro client.Object, data map[string][]byte) (UpsertResult, error) {
	start := time.Now()
	name := secretName(cro)

	existing := &corev1.Secret{}
	err := g.client.Get(ctx, types.NamespacedName{Namespace: cro.GetNamespace(), Name: name}, existing)
	switch {
	case apierrors.IsNotFound(err):
		secret := &corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{Namespace: cro.GetNamespace(), Name: name},
			Type:       corev1.SecretTypeOpaque,
			Data:       data,
		}
		if err := controllerutil.SetControllerReference(cro, secret, g.scheme); err != nil {
			g.observe("upsert-payload", cro.GetNamespace(), start, err)
			return UpsertUnchanged, fmt.Errorf("kube: set owner reference: %w", err)
		}
		err := g.client.Create(ctx, secret)
		g.observe("upsert-payload", cro.GetNamespace(), start, err)
		if err != nil {
			return UpsertUnchanged, fmt.Errorf("kube: create payload: %w", err)
		}
		return UpsertCreated, nil
	case err != nil:
		g.observe("upsert-payload", cro.GetNamespace(), start, err)
		return UpsertUnchanged, fmt.Errorf("kube: get payload: %w", err)
	}

	if secretDataEqual(existing.Data, data) {
		g.observe("upsert-payload", cro.GetNamespace(), start, nil)
		return UpsertUnchanged, nil
	}

	before := existing.DeepCopy()
	existing.Data = data
	err = g.client.Patch(ctx, existing, client.MergeFrom(before))
	g.observe("upsert-payload", cro.GetNamespace(), start, err)
	if err != nil {
		return UpsertUnchanged, fmt.Errorf("kube: patch payload: %w", err)
	}
	return UpsertPatched, nil
}

// DeleteChildPayload best-effort deletes the credentials payload for cro.
// Usually unnecessary: the owner-reference cascade (P5) removes it when the
// CRO itself is deleted, but the reconciler calls this to handle the case
// where the payload was created before the CRO's finalizer was released.
func (g *Gateway) DeleteChildPayload(ctx context.Context, cro client.Object) error {
	start := time.Now()
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Namespace: cro.GetNamespace(), Name: secretName(cro)},
	}
	err := g.client.Delete(ctx, secret)
	if err != nil && apierrors.IsNotFound(err) {
		err = nil
	}
	g.observe("delete-payload", cro.GetNamespace(), start, err)
	if err != nil {
		return fmt.Errorf("kube: delete payload: %w", err)
	}
	return nil
}

func secretDataEqual(a, b map[string][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if !bytes.Equal(v, b[k]) {
			return false
		}
	}
	return true
}
