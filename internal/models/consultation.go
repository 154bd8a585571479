package models

import (
	"time"

	"booking-flow/internal/pricing"
)

type ConsultationDraft struct {
	Name             string    `json:"name"              validate:"required,min=2"`
	Email            string    `json:"email"             validate:"required,email"`
	Phone            string    `json:"phone"             validate:"required,phone"`
	ConsultationType string    `json:"consultation_type" validate:"required,oneof=measurement fitting design"`
	Garments         int       `json:"garments"          validate:"gte=1"`
	Location         string    `json:"location"          validate:"required,oneof=studio home"`
	ScheduledAt      time.Time `json:"scheduled_at"      validate:"required"`
	Notes            string    `json:"notes,omitempty"   validate:"max=500"`
}

func (d *ConsultationDraft) Normalize() {
	d.Garments = clamp(d.Garments, MinGarments, MaxGarments)
}

func (d *ConsultationDraft) Completion() (int, int) {
	return completion(
		present(d.Name),
		present(d.Email),
		present(d.Phone),
		present(d.ConsultationType),
		present(d.Location),
		!d.ScheduledAt.IsZero(),
	)
}

func (d *ConsultationDraft) Clone() ConsultationDraft { return *d }

func (d *ConsultationDraft) Prefill(p Profile) {
	fill(&d.Name, p.Name)
	fill(&d.Email, p.Email)
	fill(&d.Phone, p.Phone)
}

func (d *ConsultationDraft) Quote(r pricing.Rates) pricing.Quote {
	q := pricing.Categorical(r.Consultation, d.ConsultationType, d.Garments)
	if d.Location == "home" {
		q = q.AddFee("home visit", r.Consultation.Fee(pricing.FeeHomeVisit))
	}
	return q
}

func (d *ConsultationDraft) Category() string { return d.ConsultationType }

func (d *ConsultationDraft) Schedule() time.Time { return d.ScheduledAt }
