// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ClusterHealth tracks sustained cluster-API failures across every family's
// reconciler and backs the operator's /healthz handler (spec.md §7,
// "ClusterUnavailable": 503 after 30 s of sustained failure). That single
// endpoint serves liveness and readiness alike, so a probe of either kind
// sees the 503.
type ClusterHealth struct {
	mu             sync.Mutex
	firstFailureAt time.Time
	threshold      time.Duration
}

// NewClusterHealth builds a tracker that reports unready once failures have
// been continuously observed for longer than threshold.
func NewClusterHealth(threshold time.Duration) *ClusterHealth {
	return &ClusterHealth{threshold: threshold}
}

// RecordSuccess clears any in-progress failure streak.
func (h *ClusterHealth) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.firstFailureAt = time.Time{}
}

// RecordFailure marks the start of a failure streak, if one is not already
// in progress.
func (h *ClusterHealth) RecordFailure() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.firstFailureAt.IsZero() {
		h.firstFailureAt = time.Now()
	}
}

// Check implements the controller-runtime healthz.Checker signature.
// Returns an error (surfaced as HTTP 503 by the /healthz handler) once the
// current failure streak has lasted past the threshold.
func (h *ClusterHealth) Check(_ *http.Request) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.firstFailureAt.IsZero() {
		return nil
	}
	if since := time.Since(h.firstFailureAt); since > h.threshold {
		return fmt.Errorf("cluster API unavailable for %s", since.Round(time.Second))
	}
	return nil
}
