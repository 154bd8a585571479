package models

// Selection is one color of a fabric order.
type Selection struct {
	Color    string `json:"color"    validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	Length   int    `json:"length"   validate:"gte=1"`
}

// SelectionSet keeps selections in insertion order with unique colors.
type SelectionSet []Selection

func (s SelectionSet) index(color string) int {
	for i := range s {
		if s[i].Color == color {
			return i
		}
	}
	return -1
}

// Upsert appends a new color or updates the quantity of an existing one.
// A positive length also replaces the stored length. s is left untouched.
func (s SelectionSet) Upsert(sel Selection) SelectionSet {
	out := make(SelectionSet, len(s), len(s)+1)
	copy(out, s)
	i := out.index(sel.Color)
	if i < 0 {
		return append(out, sel)
	}
	out[i].Quantity = sel.Quantity
	if sel.Length > 0 {
		out[i].Length = sel.Length
	}
	return out
}

// Remove returns s without color. s is left untouched.
func (s SelectionSet) Remove(color string) SelectionSet {
	i := s.index(color)
	if i < 0 {
		return s
	}
	out := make(SelectionSet, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func (s SelectionSet) Get(color string) (Selection, bool) {
	i := s.index(color)
	if i < 0 {
		return Selection{}, false
	}
	return s[i], true
}

// normalized clamps every tuple and folds duplicate colors into the first
// occurrence, later values winning.
func (s SelectionSet) normalized() SelectionSet {
	out := make(SelectionSet, 0, len(s))
	for _, sel := range s {
		sel.Quantity = clamp(sel.Quantity, MinQuantity, MaxQuantity)
		sel.Length = clamp(sel.Length, MinLength, MaxLength)
		out = out.Upsert(sel)
	}
	return out
}

func (s SelectionSet) clone() SelectionSet {
	if s == nil {
		return nil
	}
	return append(SelectionSet(nil), s...)
}
