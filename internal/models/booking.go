package models

import (
	"encoding/json"
	"time"
)

// BookingRequest is the envelope of a draft submitted through the message bus.
type BookingRequest struct {
	Kind           Kind            `json:"kind"`
	IdempotencyKey string          `json:"idempotency_key"`
	Draft          json.RawMessage `json:"draft"`
}

// Booking is a finished draft recorded by the sink.
type Booking struct {
	ID             string    `json:"id"              gorm:"primary_key;type:varchar(36)"`
	Kind           Kind      `json:"kind"            gorm:"type:varchar(20);index"`
	IdempotencyKey string    `json:"idempotency_key" gorm:"type:varchar(64);unique_index"`
	Category       string    `json:"category"`
	Total          int64     `json:"total"`
	Payload        string    `json:"payload"         gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}

func (b Booking) Confirmation() Confirmation {
	return Confirmation{
		ID:             b.ID,
		Kind:           b.Kind,
		IdempotencyKey: b.IdempotencyKey,
		Category:       b.Category,
		Total:          b.Total,
		CreatedAt:      b.CreatedAt,
	}
}

type Confirmation struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	IdempotencyKey string    `json:"idempotency_key"`
	Category       string    `json:"category"`
	Total          int64     `json:"total"`
	CreatedAt      time.Time `json:"created_at"`
}
