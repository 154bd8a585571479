package flow

import "booking-flow/internal/models"

// Step is one screen of a flow and the fields it owns.
type Step struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

var (
	PackageSteps = []Step{
		{Name: "details", Fields: []string{"sender_name", "sender_phone", "pickup_address", "delivery_address"}},
		{Name: "package", Fields: []string{"package_type", "weight", "pickup_date", "notes"}},
		{Name: "payment", Fields: []string{"payment_method"}},
	}
	TextileSteps = []Step{
		{Name: "customize", Fields: []string{"fabric", "selections"}},
		{Name: "details", Fields: []string{"customer_name", "phone", "delivery_address"}},
		{Name: "payment", Fields: []string{"payment_method"}},
	}
	CheckoutSteps = []Step{
		{Name: "review", Fields: []string{"items"}},
		{Name: "shipping", Fields: []string{"full_name", "email", "phone", "address", "city"}},
		{Name: "payment", Fields: []string{"payment_method"}},
	}
	LabSteps = []Step{
		{Name: "test", Fields: []string{"test_type", "home_collection", "collection_address", "scheduled_at"}},
		{Name: "details", Fields: []string{"patient_name", "email", "phone"}},
		{Name: "payment", Fields: []string{"payment_method"}},
	}
	ConsultationSteps = []Step{
		{Name: "details", Fields: []string{"name", "email", "phone"}},
		{Name: "schedule", Fields: []string{"consultation_type", "garments", "location", "scheduled_at", "notes"}},
	}
)

func StepsFor(k models.Kind) []Step {
	switch k {
	case models.KindPackage:
		return PackageSteps
	case models.KindTextile:
		return TextileSteps
	case models.KindCheckout:
		return CheckoutSteps
	case models.KindLab:
		return LabSteps
	case models.KindConsultation:
		return ConsultationSteps
	default:
		return nil
	}
}

func names(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name
	}
	return out
}
