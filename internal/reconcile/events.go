// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package reconcile

// Event reasons the reconciler emits against a CRO (spec.md §6,
// "Event reasons (controller-emitted)").
const (
	ReasonClaimed              = "Claimed"
	ReasonProvisioned          = "Provisioned"
	ReasonCredentialsPublished = "CredentialsPublished"
	ReasonDrifted              = "Drifted"
	ReasonSpecImmutable        = "SpecImmutable"
	ReasonRateLimited          = "RateLimited"
	ReasonUpstreamUnavailable  = "UpstreamUnavailable"
	ReasonReleased             = "Released"
)
