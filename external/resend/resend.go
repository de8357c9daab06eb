package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Dimuthu1234/soundcloud-boost/internal/model"
)

type ResendMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewResendMailer(from string) (*ResendMailer, error) {
	key := os.Getenv("RESEND_API_KEY")
	if key == "" {
		return nil, errors.New("RESEND_API_KEY not set")
	}

	return &ResendMailer{
		apiKey: key,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) send(ctx context.Context, to, subject, html string) error {
	body := sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	b, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/emails",
		bytes.NewBuffer(b),
	)

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return errors.New("failed to send email: " + buf.String())
	}

	return nil
}

func customerName(order *model.Order) string {
	if order.CustomerName != nil && *order.CustomerName != "" {
		return *order.CustomerName
	}
	return "Customer"
}

func (m *ResendMailer) SendOrderConfirmation(
	ctx context.Context,
	order *model.Order,
	pkg *model.Package,
) error {
	subject := fmt.Sprintf("Order Confirmed - %s | SoundCloudBoost", pkg.Title)

	html := `
		<h1>SoundCloudBoost</h1>
		<p>Hi <strong>` + customerName(order) + `</strong>,</p>
		<p>Thank you for your order! Your payment has been confirmed and we're now processing your request.</p>
		<h3>Order Details</h3>
		<ul>
			<li>Order ID: ` + order.OrderID + `</li>
			<li>Package: ` + pkg.Title + `</li>
			<li>Category: ` + pkg.Category + `</li>
			<li>Quantity: ` + fmt.Sprintf("%d", order.Quantity) + `</li>
			<li>SoundCloud URL: ` + order.SoundcloudURL + `</li>
			<li>Delivery Time: ` + fmt.Sprintf("%d days", pkg.DeliveryDays) + `</li>
			<li>Status: PAID</li>
			<li>Total Paid: ` + fmt.Sprintf("$%.2f USD", order.TotalPrice) + `</li>
		</ul>
		<p>We'll start working on your order right away. You'll receive updates as your order progresses.</p>
	`

	return m.send(ctx, order.CustomerEmail, subject, html)
}

var statusMessages = map[string]string{
	model.OrderStatusPaid:      "Your payment has been confirmed! We are now processing your order.",
	model.OrderStatusCompleted: "Great news! Your order has been completed successfully.",
}

func (m *ResendMailer) SendStatusUpdate(
	ctx context.Context,
	order *model.Order,
	pkg *model.Package,
	newStatus string,
) error {
	subject := fmt.Sprintf("Order Update - %s | SoundCloudBoost", strings.ToUpper(newStatus))

	msg := statusMessages[newStatus]
	if msg == "" {
		msg = "Your order status has been updated."
	}

	html := `
		<h1>SoundCloudBoost</h1>
		<p>Hi <strong>` + customerName(order) + `</strong>,</p>
		<h2>Order Status: ` + strings.ToUpper(newStatus) + `</h2>
		<p>` + msg + `</p>
		<p><strong>Order ID:</strong> ` + order.OrderID + `</p>
		<p><strong>Package:</strong> ` + pkg.Title + `</p>
		<p><strong>Total:</strong> ` + fmt.Sprintf("$%.2f USD", order.TotalPrice) + `</p>
	`

	return m.send(ctx, order.CustomerEmail, subject, html)
}
