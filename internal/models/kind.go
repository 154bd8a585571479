package models

import "strings"

type Kind string

const (
	KindPackage      Kind = "package"
	KindTextile      Kind = "textile"
	KindCheckout     Kind = "checkout"
	KindLab          Kind = "lab"
	KindConsultation Kind = "consultation"
)

var Kinds = []Kind{KindPackage, KindTextile, KindCheckout, KindLab, KindConsultation}

func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Numeric input outside these bounds is clamped by Normalize.
const (
	MinQuantity = 1
	MaxQuantity = 99
	MinLength   = 1
	MaxLength   = 100
	MaxWeight   = 1000
	MinGarments = 1
	MaxGarments = 20
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// completion counts populated required fields.
func completion(populated ...bool) (filled, total int) {
	for _, ok := range populated {
		if ok {
			filled++
		}
	}
	return filled, len(populated)
}

func present(s string) bool { return strings.TrimSpace(s) != "" }
