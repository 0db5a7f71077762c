package ports

import "context"

// PaymentGateway is the outbound verification surface of the external payment
// provider. Implementations must treat any transport fault as "not confirmed"
// and report it through err so callers can log it apart from a real decline.
type PaymentGateway interface {
	VerifyTransaction(ctx context.Context, transactionUUID string, amount float64) (confirmed bool, err error)
}

// PaymentForm is everything the client needs to drive the provider's hosted
// checkout form for one transaction.
type PaymentForm struct {
	GatewayURL       string
	ProductCode      string
	SuccessURL       string
	FailureURL       string
	SignedFieldNames string
	Signature        string
}

type PaymentFormSigner interface {
	BuildForm(transactionUUID string, amount float64) (PaymentForm, error)
}

// GatewayCallback is the decoded, still-untrusted redirect payload. Complete
// is the provider's claim, not a verified fact.
type GatewayCallback struct {
	TransactionUUID string
	TransactionCode string
	Complete        bool
}

type CallbackDecoder interface {
	DecodeCallback(encoded string) (GatewayCallback, error)
}
