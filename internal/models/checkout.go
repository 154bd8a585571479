package models

import (
	"booking-flow/internal/pricing"
)

type LineItem struct {
	SKU       string `json:"sku"        validate:"required"`
	Name      string `json:"name"       validate:"required"`
	UnitPrice int64  `json:"unit_price" validate:"gt=0,max=100000000"`
	Quantity  int    `json:"quantity"   validate:"gte=1"`
}

type CheckoutDraft struct {
	Items         []LineItem `json:"items"          validate:"required,min=1,dive"`
	FullName      string     `json:"full_name"      validate:"required,min=2"`
	Email         string     `json:"email"          validate:"required,email"`
	Phone         string     `json:"phone"          validate:"required,phone"`
	Address       string     `json:"address"        validate:"required,min=5"`
	City          string     `json:"city"           validate:"required"`
	PaymentMethod string     `json:"payment_method" validate:"required,oneof=card cash transfer wallet"`
}

func (d *CheckoutDraft) Normalize() {
	for i := range d.Items {
		d.Items[i].Quantity = clamp(d.Items[i].Quantity, MinQuantity, MaxQuantity)
	}
}

func (d *CheckoutDraft) Completion() (int, int) {
	return completion(
		len(d.Items) > 0,
		present(d.FullName),
		present(d.Email),
		present(d.Phone),
		present(d.Address),
		present(d.City),
		present(d.PaymentMethod),
	)
}

func (d *CheckoutDraft) Clone() CheckoutDraft {
	c := *d
	if d.Items != nil {
		c.Items = append([]LineItem(nil), d.Items...)
	}
	return c
}

func (d *CheckoutDraft) Prefill(p Profile) {
	fill(&d.FullName, p.Name)
	fill(&d.Email, p.Email)
	fill(&d.Phone, p.Phone)
}

func (d *CheckoutDraft) Quote(r pricing.Rates) pricing.Quote {
	units := make([]pricing.Unit, 0, len(d.Items))
	for _, it := range d.Items {
		units = append(units, pricing.Unit{Label: it.Name, Price: it.UnitPrice, Quantity: it.Quantity})
	}
	return pricing.Lines(units).WithCharges(r.Checkout.ShippingFee, r.Checkout.TaxBasisPoints)
}

func (d *CheckoutDraft) Category() string { return "cart" }

// AddHandoff turns a confirmed upstream order into a cart line.
func (d *CheckoutDraft) AddHandoff(h Handoff) {
	sku := string(h.Kind) + ":" + h.Category
	for i := range d.Items {
		if d.Items[i].SKU == sku {
			d.Items[i].UnitPrice = h.Price
			return
		}
	}
	d.Items = append(d.Items, LineItem{SKU: sku, Name: h.Category, UnitPrice: h.Price, Quantity: 1})
}
