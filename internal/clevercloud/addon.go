// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package clevercloud

import (
	"context"
	"fmt"
	"net/url"
)

// Addon is the vendor-shaped view of a remote add-on, as returned by
// CreateAddon/GetAddon/ListAddonsByName.
type Addon struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProviderID string `json:"provider_id"`
	Region     string `json:"region,omitempty"`
	PlanID     string `json:"plan,omitempty"`
}

// CredentialsPending is returned by GetCredentials when the vendor has
// acknowledged the add-on but has not yet finished provisioning connection
// parameters (spec.md §4.5, state S2).
var CredentialsPending = fmt.Errorf("clevercloud: credentials not yet available")

// CreateAddon provisions a new remote add-on under org. name should be the
// canonical name computed by the identity-reconciliation procedure
// (spec.md §4.5) so that a retried create is distinguishable from a fresh
// one via ListAddonsByName. Returns a ConflictError if the name is already
// taken, in which case the caller is expected to fall back to
// ListAddonsByName.
func (c *Client) CreateAddon(ctx context.Context, org, providerID, planID, region, name string, options map[string]string) (*Addon, error) {
	payload := map[string]any{
		"name":        name,
		"provider_id": providerID,
		"plan":        planID,
	}
	if region != "" {
		payload["region"] = region
	}
	if len(options) > 0 {
		payload["options"] = options
	}

	var addon Addon
	path := fmt.Sprintf("/v2/organisations/%s/addons", url.PathEscape(org))
	if err := c.do(ctx, "POST", path, nil, payload, &addon); err != nil {
		return nil, err
	}
	return &addon, nil
}

// GetAddon fetches a single remote add-on by id. Returns a NotFoundError if
// the id is unknown to the vendor.
func (c *Client) GetAddon(ctx context.Context, org, remoteID string) (*Addon, error) {
	var addon Addon
	path := fmt.Sprintf("/v2/organisations/%s/addons/%s", url.PathEscape(org), url.PathEscape(remoteID))
	if err := c.do(ctx, "GET", path, nil, nil, &addon); err != nil {
		if e, ok := err.(*NotFoundError); ok {
			e.Resource, e.ID = "addon", remoteID
		}
		return nil, err
	}
	return &addon, nil
}

// ListAddonsByName lists every add-on under org whose name matches exactly.
// Used by the identity-reconciliation procedure to adopt an add-on created
// by a prior, interrupted reconcile (spec.md §4.5, P7).
func (c *Client) ListAddonsByName(ctx context.Context, org, name string) ([]Addon, error) {
	var all []Addon
	path := fmt.Sprintf("/v2/organisations/%s/addons", url.PathEscape(org))
	if err := c.do(ctx, "GET", path, nil, nil, &all); err != nil {
		return nil, err
	}

	matches := make([]Addon, 0, 1)
	for _, a := range all {
		if a.Name == name {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

// GetCredentials fetches the connection parameters for a remote add-on.
// Returns CredentialsPending (check with errors.Is) if the vendor
// has not finished provisioning them yet.
func (c *Client) GetCredentials(ctx context.Context, org, remoteID string) (map[string]string, error) {
	var creds map[string]string
	path := fmt.Sprintf("/v2/organisations/%s/addons/%s/env", url.PathEscape(org), url.PathEscape(remoteID))
	if err := c.do(ctx, "GET", path, nil, nil, &creds); err != nil {
		return nil, err
	}
	if len(creds) == 0 {
		return nil, CredentialsPending
	}
	return creds, nil
}

// PushVariables overwrites the `variables` map on a config-provider add-on.
// Only the ConfigProvider family pushes on drift (spec.md §4.5, "Options/
// diffing policy").
func (c *Client) PushVariables(ctx context.Context, org, remoteID string, variables map[string]string) error {
	path := fmt.Sprintf("/v2/organisations/%s/addons/%s/env", url.PathEscape(org), url.PathEscape(remoteID))
	return c.do(ctx, "PUT", path, nil, variables, nil)
}

// DeleteAddon tears down a remote add-on. A NotFoundError is treated by the
// caller as "already-absent", not as a failure (spec.md §4.2, P2).
func (c *Client) DeleteAddon(ctx context.Context, org, remoteID string) error {
	path := fmt.Sprintf("/v2/organisations/%s/addons/%s", url.PathEscape(org), url.PathEscape(remoteID))
	return c.do(ctx, "DELETE", path, nil, nil, nil)
}

// AddonPlan is a single plan offered by a provider, as returned by
// ListAddonPlans.
type AddonPlan struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Zones  []string `json:"zones,omitempty"`
}

// ResolvePlan looks up the vendor-side plan id for a provider-specific plan
// slug and region, rejecting unknown codes before CreateAddon is attempted
// (SPEC_FULL.md's "plan/region resolution" supplement, grounded on the
// original's provider-specific plan lookup). An unknown plan or region is
// surfaced as a PermanentError: retrying without a spec change will not
// resolve it.
func (c *Client) ResolvePlan(ctx context.Context, providerID, region, planSlug string) (string, error) {
	var plans []AddonPlan
	path := fmt.Sprintf("/v2/products/addonproviders/%s/plans", url.PathEscape(providerID))
	if err := c.do(ctx, "GET", path, nil, nil, &plans); err != nil {
		return "", err
	}

	for _, p := range plans {
		if p.Slug != planSlug {
			continue
		}
		if region == "" || len(p.Zones) == 0 || containsZone(p.Zones, region) {
			return p.ID, nil
		}
	}

	return "", &PermanentError{Err: fmt.Errorf("unknown plan %q for provider %q in region %q", planSlug, providerID, region)}
}

func containsZone(zones []string, region string) bool {
	for _, z := range zones {
		if z == region {
			return true
		}
	}
	return false
}
