package huawei

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Credentials identify a Huawei AppGallery Connect app.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// OrderRequest identifies a one-time purchase to verify.
type OrderRequest struct {
	ProductID     string `json:"productId"`
	PurchaseToken string `json:"purchaseToken"`
}

// SubscriptionRequest identifies a subscription purchase to verify.
type SubscriptionRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	PurchaseToken  string `json:"purchaseToken"`
}

// Result is a successful verification. Data is the decoded purchase
// payload and Raw the complete response envelope. Numbers in both are
// float64.
type Result struct {
	Data map[string]any `json:"data"`
	Raw  map[string]any `json:"raw"`

	payload json.RawMessage
}

// DecodeData unmarshals the purchase payload into v.
func (r *Result) DecodeData(v any) error {
	return json.Unmarshal(r.payload, v)
}

// Client verifies purchases for one app. It is safe for concurrent use;
// callers that race on an expired token may each fetch a new one.
type Client struct {
	creds      Credentials
	endpoints  Endpoints
	httpClient *http.Client
	log        logrus.FieldLogger
	now        func() time.Time
	leeway     time.Duration
	store      TokenStore
}

// New returns a client for creds. Most callers want Registry.Get, which
// shares one client per client ID.
func New(
	creds Credentials,
	opts ...Option,
) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newClient(creds, o)
}

func newClient(
	creds Credentials,
	o options,
) *Client {
	store := o.store
	if store == nil {
		store = &memoryStore{}
	}

	c := &Client{
		creds:      creds,
		endpoints:  o.endpoints,
		httpClient: o.httpClient,
		log:        o.logger.WithField("client_id", creds.ClientID),
		now:        o.now,
		leeway:     o.leeway,
		store:      store,
	}
	c.log.Debug("initialized huawei client")
	return c
}

func (c *Client) ClientID() string {
	return c.creds.ClientID
}

// Credentials returns the credentials the client was created with.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// GetOrder verifies a one-time purchase token.
func (c *Client) GetOrder(
	ctx context.Context,
	req OrderRequest,
) (
	*Result,
	error,
) {
	return c.verify(ctx, "verify order", c.endpoints.Order, req, "purchaseTokenData")
}

// GetSubscription verifies a subscription purchase token.
func (c *Client) GetSubscription(
	ctx context.Context,
	req SubscriptionRequest,
) (
	*Result,
	error,
) {
	return c.verify(ctx, "verify subscription", c.endpoints.Subscription, req, "inappPurchaseData")
}

func (c *Client) verify(
	ctx context.Context,
	op string,
	url string,
	body any,
	payloadField string,
) (
	*Result,
	error,
) {
	token, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, &TransportError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", token.Authorization())

	envelope := make(map[string]any)
	if err := c.do(req, op, &envelope); err != nil {
		return nil, err
	}

	return parseEnvelope(envelope, payloadField)
}

func parseEnvelope(
	envelope map[string]any,
	payloadField string,
) (
	*Result,
	error,
) {
	payload, _ := envelope[payloadField].(string)
	if payload == "" {
		return nil, &VerificationError{
			Code:    envelopeString(envelope, "responseCode"),
			Message: envelopeString(envelope, "responseMessage"),
		}
	}

	data := make(map[string]any)
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPayloadMalformed, payloadField, err)
	}

	return &Result{
		Data:    data,
		Raw:     envelope,
		payload: json.RawMessage(payload),
	}, nil
}

// envelopeString reads a field Huawei sends either as a string or a number.
func envelopeString(
	envelope map[string]any,
	key string,
) string {
	switch v := envelope[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (c *Client) do(
	req *http.Request,
	op string,
	v any,
) error {
	url := req.URL.String()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: url, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &TransportError{Op: op, URL: url, StatusCode: res.StatusCode, Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &TransportError{
			Op:         op,
			URL:        url,
			StatusCode: res.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", truncate(body, 256)),
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &TransportError{Op: op, URL: url, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func truncate(
	body []byte,
	n int,
) string {
	s := strings.TrimSpace(string(body))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
