// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package clevercloud

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentEncodeLeavesUnreservedAlone(t *testing.T) {
	assert.Equal(t, "abc-._~XYZ09", percentEncode("abc-._~XYZ09"))
}

func TestPercentEncodeSpace(t *testing.T) {
	assert.Equal(t, "a%20b", percentEncode("a b"))
}

func TestSignatureBaseSortsParams(t *testing.T) {
	base := signatureBase("GET", "https://api.example.com/v2/addons", url.Values{"b": {"2"}, "a": {"1"}}, map[string]string{"oauth_nonce": "n"})
	assert.Contains(t, base, "GET&")
	assert.Regexp(t, "a%3D1.*b%3D2", base)
}

func TestBearerSignerSetsHeader(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/v2/addons", nil)
	require.NoError(t, err)
	bearerSigner{token: "tok"}.Sign(req, nil)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
}
