// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/registry"
)

// canonicalName computes the deterministic vendor-side add-on name from
// (namespace, name, uid), per spec.md §4.5, "Identity reconciliation": the
// uid component makes the name unique across CRO recreations so a deleted
// and re-created object with the same (namespace, name) never adopts its
// predecessor's add-on.
func canonicalName(clusterPrefix string, cro clevercloudv1alpha1.CustomResource) string {
	short := string(cro.GetUID())
	if len(short) > 8 {
		short = short[:8]
	}
	if clusterPrefix == "" {
		return fmt.Sprintf("%s/%s/%s", cro.GetNamespace(), cro.GetName(), short)
	}
	return fmt.Sprintf("%s/%s/%s/%s", clusterPrefix, cro.GetNamespace(), cro.GetName(), short)
}

// immutableFingerprint hashes the fields that are frozen once a family's
// add-on has been provisioned (instance.region, instance.plan, and the
// family's immutable option keys), so a later reconcile can detect an edit
// to one of them without keeping the original spec around (spec.md §4.5,
// "Options/diffing policy"; §8, P8).
func immutableFingerprint(family registry.FamilyDescriptor, spec *clevercloudv1alpha1.AddonSpec) string {
	var b strings.Builder

	if family.SupportsInstance() && spec.Instance != nil {
		fmt.Fprintf(&b, "region=%s;plan=%s;", spec.Instance.Region, spec.Instance.Plan)
	}

	if family.SupportsOptions() {
		keys := append([]string(nil), family.ImmutableOptionKeys()...)
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s=%s;", k, spec.Options[k])
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
