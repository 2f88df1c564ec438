package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const signaturePrefix = "sha256="

// ComputeSignature computes the hex-encoded HMAC-SHA256 of body using secret,
// prefixed with "sha256=" as sent by webhook producers.
func ComputeSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature header against the raw body.
// The "sha256=" prefix on the header value is optional. Comparison is
// constant-time.
func VerifySignature(secret, signature string, body []byte) bool {
	if signature == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, signaturePrefix)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}
