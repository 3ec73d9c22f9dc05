package webhook

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // dictated by the github webhook signature scheme
	"encoding/hex"

	"github.com/google/go-github/v59/github"
)

// ValidSignature reports whether signature is a valid HMAC signature of
// body keyed with secret.
// Both the sha1 and sha256 signature headers are supported, the comparison
// is constant-time. Malformed input never causes an error, it makes the
// signature invalid.
func ValidSignature(signature string, body, secret []byte) bool {
	return github.ValidateSignature(signature, body, secret) == nil
}

// Sign returns the hex-encoded HMAC-SHA1 signature of body in the format of
// the X-Hub-Signature header.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha1.New, secret)
	mac.Write(body)

	return "sha1=" + hex.EncodeToString(mac.Sum(nil))
}
