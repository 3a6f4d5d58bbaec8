// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package registry implements the Resource Schema Registry (spec.md §4.1,
// component C1): a declarative catalog of supported add-on families. Each
// family supplies its custom-resource shape, its remote provider identifier,
// and the projection from vendor credentials to the flat map published in
// the credentials payload.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"k8s.io/apimachinery/pkg/runtime/schema"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
)

// CredentialsProjection converts a vendor-shaped credentials record into the
// flat map of uppercased keys published in the credentials payload
// (spec.md §3, "Credentials Payload").
type CredentialsProjection func(remoteCredentials map[string]string) map[string][]byte

// FamilyDescriptor is the capability set every family value in the registry
// implements (spec.md §9, "Dynamic dispatch over families"). The reconciler
// is parametric over this interface and never special-cases a family by name.
type FamilyDescriptor interface {
	// Name is the short, lowercase family identifier used in logs, metrics
	// labels and CLI subcommands (e.g. "redis").
	Name() string

	// GroupVersionKind identifies the custom resource kind this family owns.
	GroupVersionKind() schema.GroupVersionKind

	// Plural is the CRD plural resource name.
	Plural() string

	// ShortNames are the CRD short names (e.g. "pg" for PostgreSql).
	ShortNames() []string

	// RemoteProviderID is the vendor-side add-on provider identifier (e.g.
	// "postgresql-addon", "redis-addon", "config-provider").
	RemoteProviderID() string

	// SupportsInstance reports whether this family accepts an
	// instance{region,plan} block (ConfigProvider and Pulsar do not per
	// spec.md §4.1, "supportsOptions").
	SupportsInstance() bool

	// SupportsOptions reports whether this family accepts an options block.
	SupportsOptions() bool

	// ImmutableOptionKeys lists the options-map keys that are frozen after
	// provisioning (spec.md §4.5, "Options/diffing policy"). A spec edit
	// touching one of these after status.addon is set produces a
	// SpecImmutable warning instead of a vendor call.
	ImmutableOptionKeys() []string

	// PushesVariablesOnDrift reports whether this family's `variables` map
	// is pushed to the vendor whenever it differs from the remote value,
	// rather than being frozen at creation time. Only ConfigProvider does
	// this (spec.md §4.5).
	PushesVariablesOnDrift() bool

	// ProjectCredentials converts the vendor's credential record into the
	// flat byte-map published in the credentials payload.
	ProjectCredentials(remote map[string]string) map[string][]byte
}

// baseDescriptor implements the parts of FamilyDescriptor that are identical
// across every family, so each concrete descriptor only has to supply what
// is genuinely distinct (provider id and credentials projection).
type baseDescriptor struct {
	name                string
	gvk                 schema.GroupVersionKind
	plural              string
	shortNames          []string
	remoteProviderID    string
	supportsInstance    bool
	supportsOptions     bool
	immutableOptionKeys []string
	pushVariablesDrift  bool
	project             CredentialsProjection
}

func (d *baseDescriptor) Name() string                       { return d.name }
func (d *baseDescriptor) GroupVersionKind() schema.GroupVersionKind { return d.gvk }
func (d *baseDescriptor) Plural() string                      { return d.plural }
func (d *baseDescriptor) ShortNames() []string                { return d.shortNames }
func (d *baseDescriptor) RemoteProviderID() string            { return d.remoteProviderID }
func (d *baseDescriptor) SupportsInstance() bool              { return d.supportsInstance }
func (d *baseDescriptor) SupportsOptions() bool               { return d.supportsOptions }
func (d *baseDescriptor) ImmutableOptionKeys() []string       { return d.immutableOptionKeys }
func (d *baseDescriptor) PushesVariablesOnDrift() bool        { return d.pushVariablesDrift }

func (d *baseDescriptor) ProjectCredentials(remote map[string]string) map[string][]byte {
	return d.project(remote)
}

// Registry is a process-lived, read-only-after-construction catalog of
// family descriptors. Reconcilers and controllers hold a handle on the
// registry, not vice versa (spec.md §9, "Cross-component ownership").
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]FamilyDescriptor
	registered []FamilyDescriptor
}

// New builds a Registry pre-populated with every family described in
// spec.md §6 ("Custom resource surface").
func New() *Registry {
	r := &Registry{byName: make(map[string]FamilyDescriptor)}
	for _, d := range defaultFamilies() {
		r.mustRegister(d)
	}
	return r
}

func (r *Registry) mustRegister(d FamilyDescriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Register adds a family descriptor to the registry. Returns an error if a
// descriptor with the same name is already registered.
func (r *Registry) Register(d FamilyDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[d.Name()]; exists {
		return fmt.Errorf("registry: family %q already registered", d.Name())
	}
	r.byName[d.Name()] = d
	r.registered = append(r.registered, d)
	return nil
}

// Lookup returns the descriptor for the given family name.
func (r *Registry) Lookup(name string) (FamilyDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// All returns every registered descriptor, sorted by name for deterministic
// iteration (CLI output, controller startup logs).
func (r *Registry) All() []FamilyDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]FamilyDescriptor, len(r.registered))
	copy(out, r.registered)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func gvk(kind string, beta bool) schema.GroupVersionKind {
	gv := clevercloudv1alpha1.GroupVersion
	if beta {
		gv = clevercloudv1alpha1.GroupVersionBeta
	}
	return gv.WithKind(kind)
}
