package esewa

import (
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

// BuildForm produces the signed hosted-checkout form parameters for one
// transaction. It implements ports.PaymentFormSigner.
func (c *Client) BuildForm(transactionUUID string, amount float64) (ports.PaymentForm, error) {
	message := CanonicalMessage(amount, transactionUUID, c.cfg.ProductCode)
	signature, err := Sign(message, []byte(c.cfg.Secret))
	if err != nil {
		return ports.PaymentForm{}, err
	}
	return ports.PaymentForm{
		GatewayURL:       c.cfg.FormURL(),
		ProductCode:      c.cfg.ProductCode,
		SuccessURL:       c.cfg.SuccessURL,
		FailureURL:       c.cfg.FailureURL,
		SignedFieldNames: SignedFieldNames,
		Signature:        signature,
	}, nil
}

// DecodeCallback adapts the wire-level payload to the neutral shape the
// application consumes. It implements ports.CallbackDecoder.
func (c *Client) DecodeCallback(encoded string) (ports.GatewayCallback, error) {
	payload, err := DecodeCallback(encoded)
	if err != nil {
		return ports.GatewayCallback{}, err
	}
	return ports.GatewayCallback{
		TransactionUUID: payload.TransactionUUID,
		TransactionCode: payload.TransactionCode,
		Complete:        payload.Complete(),
	}, nil
}
