// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package clevercloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAddonHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/organisations/orga_AAAA/addons", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "redis-addon", body["provider_id"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Addon{ID: "addon_123", Name: body["name"].(string), ProviderID: "redis-addon"})
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, srv.Client())
	require.NoError(t, err)

	addon, err := c.CreateAddon(context.Background(), "orga_AAAA", "redis-addon", "s_mono", "par", "default/redis/abcd1234", map[string]string{"version": "626"})
	require.NoError(t, err)
	assert.Equal(t, "addon_123", addon.ID)
}

func TestCreateAddonConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	_, err = c.CreateAddon(context.Background(), "orga_AAAA", "redis-addon", "s_mono", "par", "dup", nil)
	assert.True(t, IsConflict(err))
}

func TestGetAddonNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	_, err = c.GetAddon(context.Background(), "orga_AAAA", "addon_missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestListAddonsByNameFiltersExactMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Addon{
			{ID: "addon_1", Name: "default/redis/abcd1234"},
			{ID: "addon_2", Name: "default/redis/ffff0000"},
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	matches, err := c.ListAddonsByName(context.Background(), "orga_AAAA", "default/redis/abcd1234")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "addon_1", matches[0].ID)
}

func TestGetCredentialsPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	_, err = c.GetCredentials(context.Background(), "orga_AAAA", "addon_123")
	assert.ErrorIs(t, err, CredentialsPending)
}

func TestGetCredentialsReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"host": "h", "port": "6379"})
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	creds, err := c.GetCredentials(context.Background(), "orga_AAAA", "addon_123")
	require.NoError(t, err)
	assert.Equal(t, "h", creds["host"])
}

func TestDeleteAddonAlreadyAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	err = c.DeleteAddon(context.Background(), "orga_AAAA", "addon_gone")
	assert.True(t, IsNotFound(err))
}

func TestRateLimitedSurfacesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "10")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	_, err = c.GetAddon(context.Background(), "orga_AAAA", "addon_123")
	rl, ok := AsRateLimited(err)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, rl.RetryAfter)
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "bad"}, nil)
	require.NoError(t, err)

	_, err = c.GetAddon(context.Background(), "orga_AAAA", "addon_123")
	assert.True(t, IsUnauthorized(err))
}

func TestServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	_, err = c.GetAddon(context.Background(), "orga_AAAA", "addon_123")
	assert.True(t, IsTransient(err))
}

func TestBadRequestIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	_, err = c.CreateAddon(context.Background(), "orga_AAAA", "redis-addon", "bogus-plan", "par", "n", nil)
	assert.True(t, IsPermanent(err))
}

func TestOAuth1ModeSignsWithAuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "OAuth "))
		assert.Contains(t, auth, `oauth_consumer_key="ck"`)
		assert.Contains(t, auth, `oauth_signature_method="HMAC-SHA1"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	creds := Credentials{Token: "tok", Secret: "toksecret", ConsumerKey: "ck", ConsumerSecret: "cs"}
	c, err := New(srv.URL, creds, nil)
	require.NoError(t, err)

	err = c.DeleteAddon(context.Background(), "orga_AAAA", "addon_123")
	assert.NoError(t, err)
}

func TestResolvePlanUnknownCodeIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]AddonPlan{{ID: "plan_1", Slug: "s_mono", Zones: []string{"par"}}})
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	_, err = c.ResolvePlan(context.Background(), "redis-addon", "mtl", "s_mono")
	assert.True(t, IsPermanent(err))
}

func TestResolvePlanMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]AddonPlan{{ID: "plan_1", Slug: "s_mono", Zones: []string{"par"}}})
	}))
	defer srv.Close()

	c, err := New(srv.URL, Credentials{Token: "tok"}, nil)
	require.NoError(t, err)

	id, err := c.ResolvePlan(context.Background(), "redis-addon", "par", "s_mono")
	require.NoError(t, err)
	assert.Equal(t, "plan_1", id)
}
