package esewa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const statusComplete = "COMPLETE"

// Config is the gateway surface consumed by the adapter. Secret and
// ProductCode are validated at bootstrap; the adapter assumes they are set.
type Config struct {
	BaseURL       string
	ProductionURL string
	ProductCode   string
	Secret        string
	SuccessURL    string
	FailureURL    string
	TestMode      bool
	VerifyTimeout time.Duration
}

func (c Config) EndpointBase() string {
	if c.TestMode {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return strings.TrimRight(c.ProductionURL, "/")
}

// FormURL is the target the client-side form POST is redirected to.
func (c Config) FormURL() string {
	return c.EndpointBase() + "/api/epay/main/v2/form"
}

// Client performs read-only status queries against the gateway. It implements
// ports.PaymentGateway.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.VerifyTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

// VerifyTransaction asks the gateway whether the transaction completed.
// Confirmation requires a 2xx response whose body reports status COMPLETE.
// Transport faults and timeouts return (false, err) so the caller can log the
// ambiguity apart from a genuine decline; they never confirm a payment.
func (c *Client) VerifyTransaction(ctx context.Context, transactionUUID string, amount float64) (bool, error) {
	q := url.Values{}
	q.Set("product_code", c.cfg.ProductCode)
	q.Set("total_amount", formatAmount(amount))
	q.Set("transaction_uuid", transactionUUID)
	verifyURL := c.cfg.EndpointBase() + "/api/epay/transaction/status/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, verifyURL, nil)
	if err != nil {
		return false, fmt.Errorf("build verify request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("gateway status query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("read gateway response: %w", err)
	}
	var parsed statusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false, nil
	}
	return parsed.Status == statusComplete, nil
}
