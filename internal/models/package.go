package models

import (
	"time"

	"booking-flow/internal/pricing"
)

type PackageDraft struct {
	SenderName      string    `json:"sender_name"      validate:"required,min=2"`
	SenderPhone     string    `json:"sender_phone"     validate:"required,phone"`
	PickupAddress   string    `json:"pickup_address"   validate:"required,min=5"`
	DeliveryAddress string    `json:"delivery_address" validate:"required,min=5,nefield=PickupAddress"`
	PackageType     string    `json:"package_type"     validate:"required,oneof=small medium large documents"`
	Weight          int       `json:"weight"           validate:"gt=0"`
	PickupDate      time.Time `json:"pickup_date"      validate:"required"`
	PaymentMethod   string    `json:"payment_method"   validate:"required,oneof=card cash transfer wallet"`
	Notes           string    `json:"notes,omitempty"  validate:"max=500"`
}

func (d *PackageDraft) Normalize() {
	d.Weight = clamp(d.Weight, 0, MaxWeight)
}

func (d *PackageDraft) Completion() (int, int) {
	return completion(
		present(d.SenderName),
		present(d.SenderPhone),
		present(d.PickupAddress),
		present(d.DeliveryAddress),
		present(d.PackageType),
		d.Weight > 0,
		!d.PickupDate.IsZero(),
		present(d.PaymentMethod),
	)
}

func (d *PackageDraft) Clone() PackageDraft { return *d }

func (d *PackageDraft) Prefill(p Profile) {
	fill(&d.SenderName, p.Name)
	fill(&d.SenderPhone, p.Phone)
}

func (d *PackageDraft) Quote(r pricing.Rates) pricing.Quote {
	return pricing.Categorical(r.Package, d.PackageType, d.Weight)
}

func (d *PackageDraft) Category() string { return d.PackageType }

func (d *PackageDraft) Schedule() time.Time { return d.PickupDate }
