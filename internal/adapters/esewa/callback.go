package esewa

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// CallbackPayload is the decoded gateway redirect payload. The gateway sends it
// as base64(JSON) in a single query parameter; every field below is required.
type CallbackPayload struct {
	TransactionCode  string `json:"transaction_code"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// Complete reports whether the payload claims the provider's completed
// sentinel. A claim alone never settles a payment; the orchestrator re-verifies
// against the gateway with the ledger's own amount.
func (p CallbackPayload) Complete() bool {
	return p.Status == statusComplete
}

// DecodeCallback parses the opaque redirect payload. The input is adversarial
// by definition; any structural defect is a decode error for the caller to
// absorb, never a panic.
func DecodeCallback(encoded string) (CallbackPayload, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return CallbackPayload{}, fmt.Errorf("empty callback payload")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Some gateway deployments url-encode to the url-safe alphabet.
		raw, err = base64.URLEncoding.DecodeString(encoded)
		if err != nil {
			return CallbackPayload{}, fmt.Errorf("decode base64 payload: %w", err)
		}
	}
	var payload CallbackPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return CallbackPayload{}, fmt.Errorf("decode callback json: %w", err)
	}
	if payload.TransactionUUID == "" || payload.Status == "" || payload.TransactionCode == "" {
		return CallbackPayload{}, fmt.Errorf("callback payload missing required fields")
	}
	return payload, nil
}
