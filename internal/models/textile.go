package models

import (
	"booking-flow/internal/pricing"
)

type TextileDraft struct {
	Fabric          string       `json:"fabric"           validate:"required,oneof=ankara lace aso-oke adire"`
	Selections      SelectionSet `json:"selections"       validate:"required,min=1,dive"`
	CustomerName    string       `json:"customer_name"    validate:"required,min=2"`
	Phone           string       `json:"phone"            validate:"required,phone"`
	DeliveryAddress string       `json:"delivery_address" validate:"required,min=5"`
	PaymentMethod   string       `json:"payment_method"   validate:"required,oneof=card cash transfer wallet"`
}

func (d *TextileDraft) Normalize() {
	d.Selections = d.Selections.normalized()
}

func (d *TextileDraft) Completion() (int, int) {
	return completion(
		present(d.Fabric),
		len(d.Selections) > 0,
		present(d.CustomerName),
		present(d.Phone),
		present(d.DeliveryAddress),
		present(d.PaymentMethod),
	)
}

func (d *TextileDraft) Clone() TextileDraft {
	c := *d
	c.Selections = d.Selections.clone()
	return c
}

func (d *TextileDraft) Prefill(p Profile) {
	fill(&d.CustomerName, p.Name)
	fill(&d.Phone, p.Phone)
}

func (d *TextileDraft) Quote(r pricing.Rates) pricing.Quote {
	perMeter, _ := r.Textile.BaseFor(d.Fabric)
	units := make([]pricing.Unit, 0, len(d.Selections))
	for _, s := range d.Selections {
		units = append(units, pricing.Unit{Label: s.Color, Price: perMeter, Quantity: s.Quantity, Length: s.Length})
	}
	return pricing.Lines(units)
}

func (d *TextileDraft) Category() string { return d.Fabric }

// Meters is the total fabric length ordered across all colors.
func (d *TextileDraft) Meters() int {
	n := 0
	for _, s := range d.Selections {
		n += s.Quantity * s.Length
	}
	return n
}
