package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Webhook event types this service consumes. Anything else is ignored.
const (
	EventOrderApproved    = "CHECKOUT.ORDER.APPROVED"
	EventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	EventCaptureDenied    = "PAYMENT.CAPTURE.DENIED"
	EventCaptureRefunded  = "PAYMENT.CAPTURE.REFUNDED"
)

type Client struct {
	clientID    string
	secret      string
	webhookID   string
	brandName   string
	frontendURL string
	baseURL     string
	client      *http.Client
}

func NewClient(brandName string) (*Client, error) {
	id := os.Getenv("PAYPAL_CLIENT_ID")
	secret := os.Getenv("PAYPAL_CLIENT_SECRET")
	if id == "" || secret == "" {
		return nil, errors.New("PAYPAL_CLIENT_ID / PAYPAL_CLIENT_SECRET not set")
	}

	base := "https://api-m.sandbox.paypal.com"
	if os.Getenv("PAYPAL_MODE") == "live" {
		base = "https://api-m.paypal.com"
	}

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}

	return &Client{
		clientID:    id,
		secret:      secret,
		webhookID:   os.Getenv("PAYPAL_WEBHOOK_ID"),
		brandName:   brandName,
		frontendURL: frontend,
		baseURL:     base,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// WebhookConfigured reports whether signature verification can be performed.
func (c *Client) WebhookConfigured() bool {
	return c.webhookID != ""
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secret))

	body := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/oauth2/token",
		strings.NewReader(body.Encode()),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal token exchange failed: %s", resp.Status)
	}

	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("paypal token exchange returned empty token")
	}
	return out.AccessToken, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return fmt.Errorf("paypal %s failed: %s: %s", path, resp.Status, buf.String())
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type orderLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type orderResponse struct {
	ID     string      `json:"id"`
	Status string      `json:"status"`
	Links  []orderLink `json:"links"`
	Payer  *struct {
		PayerID      string `json:"payer_id"`
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments *struct {
			Captures []struct {
				ID     string `json:"id"`
				Amount struct {
					Value        string `json:"value"`
					CurrencyCode string `json:"currency_code"`
				} `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// OrderResult is the outcome of creating a payment intent at the gateway.
type OrderResult struct {
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	ApprovalURL string `json:"approvalUrl"`
}

// CreateOrder registers a CAPTURE-intent order at PayPal and returns the URL
// the buyer must be redirected to for approval.
func (c *Client) CreateOrder(ctx context.Context, amount float64, currency, description string) (*OrderResult, error) {
	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         strconv.FormatFloat(amount, 'f', 2, 64),
				},
				"description": description,
			},
		},
		"payment_source": map[string]any{
			"paypal": map[string]any{
				"experience_context": map[string]string{
					"brand_name":          c.brandName,
					"landing_page":        "LOGIN",
					"shipping_preference": "NO_SHIPPING",
					"user_action":         "PAY_NOW",
					"return_url":          c.frontendURL + "/payment/success",
					"cancel_url":          c.frontendURL + "/payment/cancel",
				},
			},
		},
	}

	var out orderResponse
	if err := c.postJSON(ctx, "/v2/checkout/orders", payload, &out); err != nil {
		return nil, err
	}

	res := &OrderResult{OrderID: out.ID, Status: out.Status}
	for _, l := range out.Links {
		if l.Rel == "payer-action" {
			res.ApprovalURL = l.Href
			break
		}
	}
	return res, nil
}

// CaptureResult is the outcome of capturing funds for an approved order.
type CaptureResult struct {
	CaptureID  string  `json:"captureId"`
	Status     string  `json:"status"`
	PayerID    string  `json:"payerId"`
	PayerEmail string  `json:"payerEmail"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

// CaptureOrder moves the funds for a previously approved order.
func (c *Client) CaptureOrder(ctx context.Context, paypalOrderID string) (*CaptureResult, error) {
	var out orderResponse
	if err := c.postJSON(ctx, "/v2/checkout/orders/"+paypalOrderID+"/capture", struct{}{}, &out); err != nil {
		return nil, err
	}

	res := &CaptureResult{Status: out.Status}
	if out.Payer != nil {
		res.PayerID = out.Payer.PayerID
		res.PayerEmail = out.Payer.EmailAddress
	}
	if len(out.PurchaseUnits) > 0 && out.PurchaseUnits[0].Payments != nil &&
		len(out.PurchaseUnits[0].Payments.Captures) > 0 {
		capture := out.PurchaseUnits[0].Payments.Captures[0]
		res.CaptureID = capture.ID
		res.Currency = capture.Amount.CurrencyCode
		res.Amount, _ = strconv.ParseFloat(capture.Amount.Value, 64)
	}
	return res, nil
}

// GetOrderStatus fetches the gateway-side status of an order.
func (c *Client) GetOrderStatus(ctx context.Context, paypalOrderID string) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/checkout/orders/"+paypalOrderID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal get order failed: %s", resp.Status)
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// WebhookEvent is the inbound notification envelope.
type WebhookEvent struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Resource  WebhookResource `json:"resource"`
}

type WebhookResource struct {
	ID                string `json:"id"`
	SupplementaryData *struct {
		RelatedIDs struct {
			OrderID string `json:"order_id"`
		} `json:"related_ids"`
	} `json:"supplementary_data,omitempty"`
}

// RelatedOrderID returns the gateway order id a capture resource belongs to,
// or "" when the event carries no such reference.
func (r WebhookResource) RelatedOrderID() string {
	if r.SupplementaryData == nil {
		return ""
	}
	return r.SupplementaryData.RelatedIDs.OrderID
}

type verifyRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

type verifyResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// VerifyWebhookSignature asks PayPal whether the delivered event is authentic.
// headers must be the original request headers, rawBody the unmodified body.
func (c *Client) VerifyWebhookSignature(ctx context.Context, headers http.Header, rawBody []byte) (bool, error) {
	if c.webhookID == "" {
		return false, errors.New("PAYPAL_WEBHOOK_ID not set")
	}

	in := verifyRequest{
		AuthAlgo:         headers.Get("Paypal-Auth-Algo"),
		CertURL:          headers.Get("Paypal-Cert-Url"),
		TransmissionID:   headers.Get("Paypal-Transmission-Id"),
		TransmissionSig:  headers.Get("Paypal-Transmission-Sig"),
		TransmissionTime: headers.Get("Paypal-Transmission-Time"),
		WebhookID:        c.webhookID,
		WebhookEvent:     json.RawMessage(rawBody),
	}

	var out verifyResponse
	if err := c.postJSON(ctx, "/v1/notifications/verify-webhook-signature", in, &out); err != nil {
		return false, err
	}
	return out.VerificationStatus == "SUCCESS", nil
}
