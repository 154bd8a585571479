package pricing

import "math"

type Line struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Quote is derived from a draft on every read and never stored on its own.
type Quote struct {
	Base      int64  `json:"base"`
	Surcharge int64  `json:"surcharge"`
	Subtotal  int64  `json:"subtotal"`
	Shipping  int64  `json:"shipping"`
	Tax       int64  `json:"tax"`
	Total     int64  `json:"total"`
	Lines     []Line `json:"lines"`
}

// Priced is implemented by every draft schema.
type Priced interface {
	Quote(r Rates) Quote
}

// ComputeTotal maps a draft to its total amount under the given rates.
func ComputeTotal(d Priced, r Rates) int64 {
	return d.Quote(r).Total
}

// Surcharge is the linear charge for quantity above the free threshold.
// Zero or missing quantity yields zero.
func Surcharge(qty, threshold int, perUnit int64) int64 {
	if qty <= 0 || qty <= threshold {
		return 0
	}
	return int64(qty-threshold) * perUnit
}

// Categorical prices a single item: base of the category plus the surcharge
// of qty over the table's free threshold. Unknown categories price at zero base.
func Categorical(t RateTable, category string, qty int) Quote {
	base, _ := t.BaseFor(category)
	sur := Surcharge(qty, t.FreeThreshold, t.PerUnit)

	q := Quote{Base: base, Surcharge: sur, Subtotal: base + sur}
	if base > 0 {
		q.Lines = append(q.Lines, Line{Label: category, Amount: base})
	}
	if sur > 0 {
		q.Lines = append(q.Lines, Line{Label: "surcharge", Amount: sur})
	}
	q.Total = q.Subtotal
	return q
}

// Unit is one line of a multi-item draft.
type Unit struct {
	Label    string
	Price    int64
	Quantity int
	Length   int
}

func (u Unit) amount() int64 {
	if u.Quantity <= 0 {
		return 0
	}
	n := int64(u.Quantity)
	if u.Length > 0 {
		n *= int64(u.Length)
	}
	return mul(u.Price, n)
}

// Lines sums price × quantity (× length when set) over every unit.
func Lines(units []Unit) Quote {
	var q Quote
	for _, u := range units {
		a := u.amount()
		q.Lines = append(q.Lines, Line{Label: u.Label, Amount: a})
		q.Base = add(q.Base, a)
	}
	q.Subtotal = q.Base
	q.Total = q.Subtotal
	return q
}

// AddFee adds a conditional flat fee to the surcharge part of q.
func (q Quote) AddFee(label string, amount int64) Quote {
	if amount <= 0 {
		return q
	}
	q.Surcharge = add(q.Surcharge, amount)
	q.Subtotal = add(q.Subtotal, amount)
	q.Total = add(q.Total, amount)
	q.Lines = append(append([]Line(nil), q.Lines...), Line{Label: label, Amount: amount})
	return q
}

// WithCharges applies shipping and tax on top of the subtotal.
// Tax is rounded half up to the minor unit.
func (q Quote) WithCharges(shipping, taxBasisPoints int64) Quote {
	q.Shipping = shipping
	q.Tax = Tax(q.Subtotal, taxBasisPoints)
	q.Total = add(add(q.Subtotal, q.Shipping), q.Tax)
	return q
}

func Tax(amount, basisPoints int64) int64 {
	if amount <= 0 || basisPoints <= 0 {
		return 0
	}
	whole, rest := amount/10000, amount%10000
	return add(mul(whole, basisPoints), (rest*basisPoints+5000)/10000)
}

// mul and add saturate at math.MaxInt64. Amounts are never negative.
func mul(a, b int64) int64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func add(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
