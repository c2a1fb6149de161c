package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SignatureHeader carries the webhook signature Paystack computes over the
// raw request body.
const SignatureHeader = "x-paystack-signature"

// SignatureVerifier validates webhook signatures.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier creates a verifier keyed with the account secret.
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Verify reports whether signature is a valid HMAC-SHA512 of body. The
// comparison is constant-time.
func (v *SignatureVerifier) Verify(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha512.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the hex HMAC-SHA512 of body. Tests use it to produce valid
// webhook deliveries.
func (v *SignatureVerifier) Sign(body []byte) string {
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}
