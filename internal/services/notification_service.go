package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"text/template"
	"time"

	"canteenhub/internal/models"
)

// NotificationService delivers order confirmations and operational alerts.
// Delivery is best effort: order commits never roll back on a failed send.
type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, employee *models.Employee, order *models.Order, lines []*models.OrderLine) error
	SendLowStockAlert(ctx context.Context, items []*models.MenuItem) error
	SendWebhook(ctx context.Context, eventType string, payload any) error
}

type notificationService struct {
	httpClient  *http.Client
	webhookURL  string
	alertEmail  string
	senderEmail string
}

func NewNotificationService(webhookURL, alertEmail, senderEmail string) NotificationService {
	return &notificationService{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		webhookURL:  webhookURL,
		alertEmail:  alertEmail,
		senderEmail: senderEmail,
	}
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(
	`Hi {{.Employee.Name}},

Your canteen order #{{.Order.DailyOrderNumber}} has been placed.

{{range .Lines}}  {{.ItemName}} x {{.Quantity}} @ {{.UnitPrice.StringFixed 2}} = {{.Amount.StringFixed 2}}
{{end}}
Total: {{.Order.TotalAmount.StringFixed 2}}
Placed at: {{.Order.CreatedAt.Format "2006-01-02 15:04"}}

Enjoy your meal!
`))

var lowStockTmpl = template.Must(template.New("lowstock").Parse(
	`The following menu items are running low:

{{range .}}  {{.Name}}: {{.Quantity}} left
{{end}}`))

// SendOrderConfirmation emails the employee a line-by-line receipt.
func (s *notificationService) SendOrderConfirmation(ctx context.Context, employee *models.Employee, order *models.Order, lines []*models.OrderLine) error {
	var body bytes.Buffer
	err := confirmationTmpl.Execute(&body, struct {
		Employee *models.Employee
		Order    *models.Order
		Lines    []*models.OrderLine
	}{employee, order, lines})
	if err != nil {
		return fmt.Errorf("failed to render confirmation: %w", err)
	}

	subject := fmt.Sprintf("Order Confirmation #%d", order.DailyOrderNumber)
	if err := s.sendEmail(ctx, employee.Email, subject, body.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationDelivery, err)
	}
	return nil
}

// SendLowStockAlert emails the canteen admin a low stock summary. Called by
// the background scheduler.
func (s *notificationService) SendLowStockAlert(ctx context.Context, items []*models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}

	var body bytes.Buffer
	if err := lowStockTmpl.Execute(&body, items); err != nil {
		return fmt.Errorf("failed to render low stock alert: %w", err)
	}

	subject := fmt.Sprintf("Low Stock Alert: %d items", len(items))
	if err := s.sendEmail(ctx, s.alertEmail, subject, body.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationDelivery, err)
	}
	return nil
}

// SendWebhook posts a JSON event to the configured webhook endpoint. A blank
// endpoint disables webhooks.
func (s *notificationService) SendWebhook(ctx context.Context, eventType string, payload any) error {
	if s.webhookURL == "" {
		return nil
	}

	event := map[string]any{
		"event_type": eventType,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"data":       payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: webhook returned status %d", ErrNotificationDelivery, resp.StatusCode)
	}
	return nil
}

// sendEmail hands the message to the mail relay. Until SMTP credentials are
// provisioned the message is logged, which keeps the delivery path testable.
func (s *notificationService) sendEmail(ctx context.Context, to, subject, body string) error {
	log.Printf("EMAIL from=%s to=%s subject=%q\n%s", s.senderEmail, to, subject, body)
	return nil
}
