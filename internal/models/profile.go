package models

// Profile is the account data drafts may be prefilled from.
// Prefilled values stay editable and are validated again on submit.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func fill(dst *string, v string) {
	if !present(*dst) && present(v) {
		*dst = v
	}
}
