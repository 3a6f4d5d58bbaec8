// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package clevercloud

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// bearerSigner implements the "oauthless" authentication mode: a single
// bearer token in the Authorization header. Selected when the configured
// credential set has only api.token set (spec.md §6, "Presence rule").
type bearerSigner struct {
	token string
}

func (s bearerSigner) Sign(req *http.Request, _ url.Values) {
	req.Header.Set("Authorization", "Bearer "+s.token)
}

// oauth1Signer implements the OAuth1 four-tuple signing scheme (token,
// token secret, consumer key, consumer secret) over HMAC-SHA1, per the
// OAuth Core 1.0a signature base string construction. No ecosystem OAuth1
// library appears in the retrieval pack, so this is built directly on
// crypto/hmac, crypto/sha1 and net/url.
type oauth1Signer struct {
	token          string
	tokenSecret    string
	consumerKey    string
	consumerSecret string
}

func newOAuth1Signer(creds Credentials) *oauth1Signer {
	return &oauth1Signer{
		token:          creds.Token,
		tokenSecret:    creds.Secret,
		consumerKey:    creds.ConsumerKey,
		consumerSecret: creds.ConsumerSecret,
	}
}

func (s *oauth1Signer) Sign(req *http.Request, query url.Values) {
	nonce := nonce()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	params := map[string]string{
		"oauth_consumer_key":     s.consumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        timestamp,
		"oauth_token":            s.token,
		"oauth_version":          "1.0",
	}

	base := signatureBase(req.Method, requestURL(req), query, params)
	key := percentEncode(s.consumerSecret) + "&" + percentEncode(s.tokenSecret)
	params["oauth_signature"] = sign(base, key)

	req.Header.Set("Authorization", authorizationHeader(params))
}

// requestURL strips the query string, as the OAuth1 base string includes
// query parameters separately via the normalized parameter set.
func requestURL(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// signatureBase builds the OAuth1 signature base string: the HTTP method,
// the base URL, and the lexically sorted, percent-encoded, '&'-joined set of
// query and oauth_* parameters.
func signatureBase(method, baseURL string, query url.Values, oauthParams map[string]string) string {
	all := make(map[string]string, len(oauthParams)+len(query))
	for k, v := range oauthParams {
		all[k] = v
	}
	for k, vs := range query {
		if len(vs) > 0 {
			all[k] = vs[0]
		}
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(all[k]))
	}

	return strings.ToUpper(method) + "&" + percentEncode(baseURL) + "&" + percentEncode(strings.Join(pairs, "&"))
}

func sign(base, key string) string {
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func authorizationHeader(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf(`%s="%s"`, k, percentEncode(params[k])))
	}
	return "OAuth " + strings.Join(parts, ", ")
}

// percentEncode applies RFC 3986 unreserved-character encoding as required
// by OAuth Core 1.0a (url.QueryEscape encodes space as '+' and is not
// compliant; this encodes space as %20 and leaves '-', '.', '_', '~' alone).
func percentEncode(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

func nonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
