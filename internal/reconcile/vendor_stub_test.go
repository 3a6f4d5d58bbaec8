// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/clevercloud/clever-operator/internal/clevercloud"
)

// vendorStub is a minimal in-memory stand-in for the vendor HTTP API,
// exercising the same endpoints internal/clevercloud/client_test.go drives
// against a real httptest.Server, so the reconciler is tested against
// vendor wire semantics rather than a hand-rolled interface mock.
type vendorStub struct {
	mu          sync.Mutex
	nextID      int
	addons      map[string]*clevercloud.Addon
	env         map[string]map[string]string
	envReady    map[string]bool
	deleted     map[string]bool
	plans       map[string][]clevercloud.AddonPlan
	createCalls int
}

func newVendorStub() *vendorStub {
	return &vendorStub{
		addons:   make(map[string]*clevercloud.Addon),
		env:      make(map[string]map[string]string),
		envReady: make(map[string]bool),
		deleted:  make(map[string]bool),
		plans:    make(map[string][]clevercloud.AddonPlan),
	}
}

// seedAddon directly registers an add-on as if it had been created by an
// earlier, crashed reconcile — i.e. without going through the CreateAddon
// handler below, so createCalls does not count it.
func (v *vendorStub) seedAddon(id, name, providerID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.addons[id] = &clevercloud.Addon{ID: id, Name: name, ProviderID: providerID}
}

func (v *vendorStub) createCallCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.createCalls
}

func (v *vendorStub) addonCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.addons)
}

func (v *vendorStub) withPlan(providerID, planSlug, planID string, zones ...string) *vendorStub {
	v.plans[providerID] = append(v.plans[providerID], clevercloud.AddonPlan{ID: planID, Slug: planSlug, Zones: zones})
	return v
}

func (v *vendorStub) readyEnv(addonID string, env map[string]string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.env[addonID] = env
	v.envReady[addonID] = true
}

func (v *vendorStub) isDeleted(addonID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deleted[addonID]
}

func (v *vendorStub) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v2/products/addonproviders/{provider}/plans", func(w http.ResponseWriter, r *http.Request) {
		v.mu.Lock()
		defer v.mu.Unlock()
		writeJSON(w, http.StatusOK, v.plans[r.PathValue("provider")])
	})

	mux.HandleFunc("POST /v2/organisations/{org}/addons", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name       string            `json:"name"`
			ProviderID string            `json:"provider_id"`
			Plan       string            `json:"plan"`
			Region     string            `json:"region"`
			Options    map[string]string `json:"options"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		v.mu.Lock()
		defer v.mu.Unlock()
		v.createCalls++
		for _, a := range v.addons {
			if a.Name == body.Name {
				writeJSON(w, http.StatusConflict, map[string]string{"type": "conflict", "message": "name taken"})
				return
			}
		}

		v.nextID++
		id := "addon_" + strconv.Itoa(v.nextID)
		addon := &clevercloud.Addon{ID: id, Name: body.Name, ProviderID: body.ProviderID, Region: body.Region, PlanID: body.Plan}
		v.addons[id] = addon
		writeJSON(w, http.StatusCreated, addon)
	})

	mux.HandleFunc("GET /v2/organisations/{org}/addons", func(w http.ResponseWriter, r *http.Request) {
		v.mu.Lock()
		defer v.mu.Unlock()
		all := make([]clevercloud.Addon, 0, len(v.addons))
		for _, a := range v.addons {
			all = append(all, *a)
		}
		writeJSON(w, http.StatusOK, all)
	})

	mux.HandleFunc("GET /v2/organisations/{org}/addons/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.deleted[id] {
			writeJSON(w, http.StatusNotFound, map[string]string{"type": "not_found"})
			return
		}
		addon, ok := v.addons[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"type": "not_found"})
			return
		}
		writeJSON(w, http.StatusOK, addon)
	})

	mux.HandleFunc("GET /v2/organisations/{org}/addons/{id}/env", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		v.mu.Lock()
		defer v.mu.Unlock()
		if !v.envReady[id] {
			writeJSON(w, http.StatusOK, map[string]string{})
			return
		}
		writeJSON(w, http.StatusOK, v.env[id])
	})

	mux.HandleFunc("PUT /v2/organisations/{org}/addons/{id}/env", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		v.mu.Lock()
		v.env[id] = body
		v.envReady[id] = true
		v.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("DELETE /v2/organisations/{org}/addons/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.addons[id]; !ok || v.deleted[id] {
			writeJSON(w, http.StatusNotFound, map[string]string{"type": "not_found"})
			return
		}
		v.deleted[id] = true
		w.WriteHeader(http.StatusNoContent)
	})

	return httptest.NewServer(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Sprintf("vendorStub: encode response: %v", err))
	}
}
