package models

import "time"

type NotificationType string

const (
	NotificationTypeEmail   NotificationType = "email"
	NotificationTypeWebhook NotificationType = "webhook"
)

type Notification struct {
	Type      NotificationType `json:"type"`
	Recipient string           `json:"recipient"`
	Subject   string           `json:"subject"`
	Body      string           `json:"body"`
	EventType string           `json:"event_type"`
	SentAt    time.Time        `json:"sent_at"`
}
