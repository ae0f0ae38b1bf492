package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godown-app/models"
)

func sampleItems() []models.LineItem {
	return []models.LineItem{
		{
			ProductName: "SPARKLE DELUXE",
			Brand:       "standard",
			Cases:       10,
			PerCase:     12,
			RatePerBox:  100,
		},
	}
}

func TestProcessItemsRecomputesQuantityAndAmount(t *testing.T) {
	items := ProcessItems([]models.LineItem{
		{Cases: 5, PerCase: 10, RatePerBox: 50, DiscountPercent: 10, Amount: 999999},
	})

	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].SNo)
	assert.Equal(t, 50, items[0].Quantity)
	// 50 * 50 = 2500, minus 10% = 2250. The echoed amount is ignored.
	assert.Equal(t, 2250.0, items[0].Amount)
}

func TestComputeTotalsIntrastate(t *testing.T) {
	items := ProcessItems(sampleItems())
	extra := models.ExtraCharges{
		PackingPercent:     3,
		ApplyProcessingFee: true,
		ApplyCGST:          true,
		ApplySGST:          true,
	}

	got := ComputeTotals(items, extra).Rounded()

	assert.Equal(t, "12000", got.Subtotal.String())
	assert.Equal(t, "360", got.PackingAmount.String())
	assert.Equal(t, "12360", got.TaxableAmount.String())
	assert.Equal(t, "1112.4", got.CgstAmount.String())
	assert.Equal(t, "1112.4", got.SgstAmount.String())
	assert.True(t, got.IgstAmount.IsZero())
	assert.Equal(t, "14585", got.GrandTotal.String())
	assert.Equal(t, "0.2", got.RoundOff.String())
	assert.Equal(t, 10, got.TotalCases)
	assert.Equal(t, 120, got.TotalQuantity)
}

func TestComputeTotalsInterstate(t *testing.T) {
	items := ProcessItems(sampleItems())
	extra := models.ExtraCharges{
		PackingPercent:     3,
		ApplyProcessingFee: true,
		ApplyIGST:          true,
	}

	got := ComputeTotals(items, extra).Rounded()

	assert.Equal(t, "2224.8", got.IgstAmount.String())
	assert.True(t, got.CgstAmount.IsZero())
	assert.True(t, got.SgstAmount.IsZero())
	assert.Equal(t, "14585", got.GrandTotal.String())
}

func TestComputeTotalsIGSTWinsOverIntrastate(t *testing.T) {
	items := ProcessItems(sampleItems())
	extra := models.ExtraCharges{
		ApplyIGST: true,
		ApplyCGST: true,
		ApplySGST: true,
	}

	got := ComputeTotals(items, extra)

	assert.False(t, got.IgstAmount.IsZero())
	assert.True(t, got.CgstAmount.IsZero())
	assert.True(t, got.SgstAmount.IsZero())
}

func TestComputeTotalsPackingSkippedWithoutProcessingFee(t *testing.T) {
	items := ProcessItems(sampleItems())
	extra := models.ExtraCharges{PackingPercent: 3}

	got := ComputeTotals(items, extra)

	assert.True(t, got.PackingAmount.IsZero())
	assert.Equal(t, "12000", got.TaxableAmount.String())
}

func TestComputeTotalsAdditionalDiscountAndTaxableValue(t *testing.T) {
	items := ProcessItems(sampleItems())
	extra := models.ExtraCharges{
		TaxableValue:       500,
		AdditionalDiscount: 2,
	}

	got := ComputeTotals(items, extra).Rounded()

	// 12000 + 500 = 12500, minus 2% = 12250, no tax flags set.
	assert.Equal(t, "12500", got.TaxableAmount.String())
	assert.Equal(t, "250", got.DiscountAmount.String())
	assert.Equal(t, "12250", got.NetBeforeTax.String())
	assert.Equal(t, "12250", got.GrandTotal.String())
	assert.True(t, got.RoundOff.IsZero())
}

func TestComputeTotalsDeterministic(t *testing.T) {
	items := ProcessItems(sampleItems())
	extra := models.ExtraCharges{
		PackingPercent:     3,
		ApplyProcessingFee: true,
		ApplyCGST:          true,
		ApplySGST:          true,
	}

	first := ComputeTotals(items, extra)
	for i := 0; i < 50; i++ {
		again := ComputeTotals(items, extra)
		require.True(t, first.GrandTotal.Equal(again.GrandTotal))
		require.True(t, first.RoundOff.Equal(again.RoundOff))
	}
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	got := ComputeTotals(nil, models.ExtraCharges{ApplyCGST: true, ApplySGST: true})

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.GrandTotal.IsZero())
	assert.Equal(t, 0, got.TotalCases)
}
