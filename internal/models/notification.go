package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationDeliveryStatus is written by the external delivery worker.
// The core only ever sets the initial "queued" value and never reads it back.
type NotificationDeliveryStatus string

const (
	DeliveryQueued NotificationDeliveryStatus = "queued"
	DeliverySent   NotificationDeliveryStatus = "sent"
	DeliveryFailed NotificationDeliveryStatus = "failed"
)

// Notification is a record appended to the outbound queue when fraud is
// confirmed. The out-of-process delivery worker owns it from then on.
type Notification struct {
	ID             uuid.UUID                  `db:"id"`
	Recipient      string                     `db:"recipient"`
	Subject        string                     `db:"subject"`
	Body           string                     `db:"body"`
	TransactionID  uuid.UUID                  `db:"transaction_id"`
	UserID         uuid.UUID                  `db:"user_id"`
	DeliveryStatus NotificationDeliveryStatus `db:"delivery_status"`
	CreatedAt      time.Time                  `db:"created_at"`
}
