package esewa

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/rameshsapkota900/Konnect/internal/domain"
)

// SignedFieldNames is the declared set and order of fields covered by the
// signature, echoed verbatim to the gateway so it can rebuild the canonical
// message. It must never drift from what CanonicalMessage emits.
const SignedFieldNames = "total_amount,transaction_uuid,product_code"

// CanonicalMessage builds the exact byte sequence the signature covers:
// key=value pairs in the declared order, comma joined, no extra whitespace.
func CanonicalMessage(totalAmount float64, transactionUUID, productCode string) string {
	return "total_amount=" + formatAmount(totalAmount) +
		",transaction_uuid=" + transactionUUID +
		",product_code=" + productCode
}

// Sign computes the keyed HMAC-SHA256 over the UTF-8 bytes of message and
// returns it base64 encoded. An absent secret is a deployment defect, not a
// runtime condition, and surfaces as domain.ErrConfiguration.
func Sign(message string, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: esewa signing secret is empty", domain.ErrConfiguration)
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// VerifySignature recomputes the signature over message and compares in
// constant time.
func VerifySignature(message, signature string, secret []byte) bool {
	expected, err := Sign(message, secret)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}

// formatAmount renders monetary amounts the way the gateway's form fields
// expect: no exponent, no trailing zeros beyond two decimals, "500" not "500.00"
// for whole amounts.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
