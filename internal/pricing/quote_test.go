package pricing_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"booking-flow/internal/pricing"
)

func TestSurcharge_AtOrBelowThreshold_Zero(t *testing.T) {
	for qty := -3; qty <= 5; qty++ {
		require.Zero(t, pricing.Surcharge(qty, 5, 200), "qty=%d", qty)
	}
}

func TestSurcharge_AboveThreshold_Linear(t *testing.T) {
	for qty := 6; qty <= 40; qty++ {
		require.Equal(t, int64(qty-5)*200, pricing.Surcharge(qty, 5, 200))
	}
}

func TestCategorical_SmallPackageOverweight(t *testing.T) {
	r := pricing.DefaultRates()

	q := pricing.Categorical(r.Package, "small", 7)
	require.Equal(t, int64(1000), q.Base)
	require.Equal(t, int64(400), q.Surcharge)
	require.Equal(t, int64(1400), q.Total)
	require.Len(t, q.Lines, 2)
}

func TestCategorical_UnknownCategory_ZeroBase(t *testing.T) {
	q := pricing.Categorical(pricing.DefaultRates().Package, "crate", 0)
	require.Zero(t, q.Total)
	require.Empty(t, q.Lines)
}

func TestLines_TextileSelections(t *testing.T) {
	q := pricing.Lines([]pricing.Unit{
		{Label: "red", Price: 2500, Quantity: 2, Length: 3},
		{Label: "blue", Price: 2500, Quantity: 1, Length: 5},
	})
	require.Equal(t, int64(27500), q.Total)
	require.Equal(t, int64(15000), q.Lines[0].Amount)
	require.Equal(t, int64(12500), q.Lines[1].Amount)
}

func TestLines_ZeroQuantityContributesNothing(t *testing.T) {
	q := pricing.Lines([]pricing.Unit{{Label: "x", Price: 100, Quantity: 0, Length: 4}})
	require.Zero(t, q.Total)
}

func TestWithCharges_Checkout(t *testing.T) {
	q := pricing.Quote{Base: 27500, Subtotal: 27500, Total: 27500}.WithCharges(3000, 500)
	require.Equal(t, int64(1375), q.Tax)
	require.Equal(t, int64(31875), q.Total)
}

func TestTax_RoundsHalfUp(t *testing.T) {
	require.Equal(t, int64(1), pricing.Tax(10, 500))  // 0.5
	require.Equal(t, int64(0), pricing.Tax(9, 500))   // 0.45
	require.Equal(t, int64(0), pricing.Tax(0, 500))
	require.Equal(t, int64(0), pricing.Tax(1000, 0))
}

func TestAddFee_DoesNotMutateOriginal(t *testing.T) {
	base := pricing.Categorical(pricing.DefaultRates().Lab, "malaria", 0)
	withFee := base.AddFee("home collection", 2000)

	require.Equal(t, int64(3000), base.Total)
	require.Len(t, base.Lines, 1)
	require.Equal(t, int64(5000), withFee.Total)
	require.Len(t, withFee.Lines, 2)

	require.Equal(t, withFee, base.AddFee("home collection", 2000), "deterministic")
}

func TestLines_SaturatesInsteadOfWrapping(t *testing.T) {
	q := pricing.Lines([]pricing.Unit{
		{Label: "a", Price: math.MaxInt64, Quantity: 2},
		{Label: "b", Price: 100, Quantity: 1},
	}).WithCharges(3000, 500)

	require.Equal(t, int64(math.MaxInt64), q.Lines[0].Amount)
	require.Equal(t, int64(math.MaxInt64), q.Subtotal)
	require.Equal(t, int64(math.MaxInt64), q.Total)
	require.Positive(t, q.Tax)
}

func TestTax_LargeAmountDoesNotOverflow(t *testing.T) {
	require.Equal(t, int64(math.MaxInt64/10000*500+(math.MaxInt64%10000*500+5000)/10000), pricing.Tax(math.MaxInt64, 500))
	require.Equal(t, int64(1375), pricing.Tax(27500, 500))
}
