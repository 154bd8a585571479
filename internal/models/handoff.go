package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrHandoffMissing = errors.New("handoff: missing parameter")

// Handoff is the read-only snapshot one flow passes to the next.
type Handoff struct {
	Kind           Kind   `json:"kind"`
	Category       string `json:"category"`
	Price          int64  `json:"price"`
	ScheduledAt    string `json:"scheduled_at,omitempty"`
	ConfirmationID string `json:"confirmation_id,omitempty"`
}

func NewHandoff(kind Kind, category string, price int64, at time.Time) Handoff {
	h := Handoff{Kind: kind, Category: category, Price: price}
	if !at.IsZero() {
		h.ScheduledAt = at.UTC().Format(time.RFC3339)
	}
	return h
}

// ParseHandoff reads navigation parameters. Only presence and basic types are
// checked; the sender's validation is not assumed.
func ParseHandoff(params map[string]string) (Handoff, error) {
	var h Handoff
	for _, k := range []string{"kind", "category", "price"} {
		if params[k] == "" {
			return Handoff{}, fmt.Errorf("%w: %s", ErrHandoffMissing, k)
		}
	}
	kind, ok := ParseKind(params["kind"])
	if !ok {
		return Handoff{}, fmt.Errorf("handoff: unknown kind %q", params["kind"])
	}
	price, err := strconv.ParseInt(params["price"], 10, 64)
	if err != nil {
		return Handoff{}, fmt.Errorf("handoff: price: %w", err)
	}
	if s := params["scheduled_at"]; s != "" {
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return Handoff{}, fmt.Errorf("handoff: scheduled_at: %w", err)
		}
		h.ScheduledAt = s
	}
	h.Kind = kind
	h.Category = params["category"]
	h.Price = price
	h.ConfirmationID = params["confirmation_id"]
	return h, nil
}

func (h Handoff) Params() map[string]string {
	p := map[string]string{
		"kind":     string(h.Kind),
		"category": h.Category,
		"price":    strconv.FormatInt(h.Price, 10),
	}
	if h.ScheduledAt != "" {
		p["scheduled_at"] = h.ScheduledAt
	}
	if h.ConfirmationID != "" {
		p["confirmation_id"] = h.ConfirmationID
	}
	return p
}
