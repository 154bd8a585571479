package pricing

// RateTable is the static price list of one flow. Amounts are minor units.
type RateTable struct {
	Base           map[string]int64 `json:"base"`
	FreeThreshold  int              `json:"free_threshold"`
	PerUnit        int64            `json:"per_unit"`
	Fees           map[string]int64 `json:"fees,omitempty"`
	ShippingFee    int64            `json:"shipping_fee,omitempty"`
	TaxBasisPoints int64            `json:"tax_basis_points,omitempty"`
}

// BaseFor returns the base amount of a category and whether it is listed.
func (t RateTable) BaseFor(category string) (int64, bool) {
	v, ok := t.Base[category]
	return v, ok
}

// Fee returns the conditional fee registered under name, zero if absent.
func (t RateTable) Fee(name string) int64 {
	return t.Fees[name]
}

type Rates struct {
	Package      RateTable `json:"package"`
	Textile      RateTable `json:"textile"`
	Checkout     RateTable `json:"checkout"`
	Lab          RateTable `json:"lab"`
	Consultation RateTable `json:"consultation"`
}

const (
	FeeHomeCollection = "home_collection"
	FeeHomeVisit      = "home_visit"
)

func DefaultRates() Rates {
	return Rates{
		Package: RateTable{
			Base: map[string]int64{
				"documents": 800,
				"small":     1000,
				"medium":    1500,
				"large":     2500,
			},
			FreeThreshold: 5,
			PerUnit:       200,
		},
		// textile base is the price per meter of a fabric
		Textile: RateTable{
			Base: map[string]int64{
				"ankara":  2500,
				"lace":    4500,
				"aso-oke": 6000,
				"adire":   2000,
			},
		},
		Checkout: RateTable{
			ShippingFee:    3000,
			TaxBasisPoints: 500,
		},
		Lab: RateTable{
			Base: map[string]int64{
				"blood-count": 5000,
				"malaria":     3000,
				"lipid-panel": 9000,
				"urinalysis":  2500,
			},
			Fees: map[string]int64{FeeHomeCollection: 2000},
		},
		Consultation: RateTable{
			Base: map[string]int64{
				"measurement": 3000,
				"fitting":     4000,
				"design":      7500,
			},
			FreeThreshold: 1,
			PerUnit:       1500,
			Fees:          map[string]int64{FeeHomeVisit: 2500},
		},
	}
}
