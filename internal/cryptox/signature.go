// Package cryptox implements the messaging provider's webhook signature
// scheme (HMAC-SHA1 over the request URL and sorted form parameters).
package cryptox

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"

	"github.com/dmitrijs2005/mealbot/internal/common"
)

// ComputeSignature returns base64(HMAC-SHA1(authToken, fullURL + k1 + v1 + k2 + v2 ...))
// with parameters sorted by key. Repeated keys contribute every value in order.
func ComputeSignature(authToken, fullURL string, params url.Values) string {
	var sb strings.Builder
	sb.WriteString(fullURL)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range params[k] {
			sb.WriteString(k)
			sb.WriteString(v)
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(sb.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against the expected value in constant time.
func VerifySignature(authToken, fullURL string, params url.Values, signature string) error {
	if signature == "" {
		return common.ErrInvalidSignature
	}
	expected := ComputeSignature(authToken, fullURL, params)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return common.ErrInvalidSignature
	}
	return nil
}
