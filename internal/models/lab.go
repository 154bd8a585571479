package models

import (
	"time"

	"booking-flow/internal/pricing"
)

type LabBookingDraft struct {
	PatientName       string    `json:"patient_name"       validate:"required,min=2"`
	Email             string    `json:"email"              validate:"required,email"`
	Phone             string    `json:"phone"              validate:"required,phone"`
	TestType          string    `json:"test_type"          validate:"required,oneof=blood-count malaria lipid-panel urinalysis"`
	HomeCollection    bool      `json:"home_collection"`
	CollectionAddress string    `json:"collection_address" validate:"required_if=HomeCollection true"`
	ScheduledAt       time.Time `json:"scheduled_at"       validate:"required"`
	PaymentMethod     string    `json:"payment_method"     validate:"required,oneof=card cash transfer wallet"`
}

func (d *LabBookingDraft) Normalize() {}

func (d *LabBookingDraft) Completion() (int, int) {
	fields := []bool{
		present(d.PatientName),
		present(d.Email),
		present(d.Phone),
		present(d.TestType),
		!d.ScheduledAt.IsZero(),
		present(d.PaymentMethod),
	}
	if d.HomeCollection {
		fields = append(fields, present(d.CollectionAddress))
	}
	return completion(fields...)
}

func (d *LabBookingDraft) Clone() LabBookingDraft { return *d }

func (d *LabBookingDraft) Prefill(p Profile) {
	fill(&d.PatientName, p.Name)
	fill(&d.Email, p.Email)
	fill(&d.Phone, p.Phone)
}

func (d *LabBookingDraft) Quote(r pricing.Rates) pricing.Quote {
	q := pricing.Categorical(r.Lab, d.TestType, 0)
	if d.HomeCollection {
		q = q.AddFee("home collection", r.Lab.Fee(pricing.FeeHomeCollection))
	}
	return q
}

func (d *LabBookingDraft) Category() string { return d.TestType }

func (d *LabBookingDraft) Schedule() time.Time { return d.ScheduledAt }
