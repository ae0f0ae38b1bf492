package services

import (
	"github.com/shopspring/decimal"

	"godown-app/models"
)

var (
	hundred  = decimal.NewFromInt(100)
	gstHalf  = decimal.NewFromFloat(9)  // CGST and SGST each
	gstInter = decimal.NewFromFloat(18) // IGST
)

// BillTotals is the full monetary breakdown of one booking. Every field is
// derived from the line items and the extra-charge flags; nothing here is
// ever taken from client-echoed amounts.
type BillTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	PackingAmount  decimal.Decimal `json:"packing_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	NetBeforeTax   decimal.Decimal `json:"net_before_tax"`
	CgstAmount     decimal.Decimal `json:"cgst_amount"`
	SgstAmount     decimal.Decimal `json:"sgst_amount"`
	IgstAmount     decimal.Decimal `json:"igst_amount"`
	RoundOff       decimal.Decimal `json:"round_off"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	TotalCases     int             `json:"total_cases"`
	TotalQuantity  int             `json:"total_quantity"`
}

// ProcessItems recomputes quantity and amount for every line from its own
// cases, per_case, rate and discount. The input slice is not modified.
func ProcessItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	for i, item := range items {
		item.SNo = i + 1
		item.Quantity = item.Cases * item.PerCase

		qty := decimal.NewFromInt(int64(item.Quantity))
		rate := decimal.NewFromFloat(item.RatePerBox)
		disc := decimal.NewFromFloat(item.DiscountPercent)

		gross := qty.Mul(rate)
		amount := gross.Sub(gross.Mul(disc).Div(hundred))
		item.Amount, _ = amount.Round(2).Float64()

		out[i] = item
	}
	return out
}

// ComputeTotals runs the bill math over already-processed items.
//
// The order is fixed: subtotal, packing fee, extra taxable value, additional
// discount, then GST on the discounted net. GST is either IGST at 18% or
// CGST+SGST at 9% each; the apply_igst flag wins when both are set. The
// grand total is rounded to the nearest rupee and round_off carries the
// difference.
func ComputeTotals(items []models.LineItem, extra models.ExtraCharges) BillTotals {
	var t BillTotals

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Amount))
		t.TotalCases += item.Cases
		t.TotalQuantity += item.Quantity
	}
	t.Subtotal = subtotal

	packing := decimal.Zero
	if extra.ApplyProcessingFee {
		packing = subtotal.Mul(decimal.NewFromFloat(extra.PackingPercent)).Div(hundred)
	}
	t.PackingAmount = packing

	taxable := subtotal.Add(packing).Add(decimal.NewFromFloat(extra.TaxableValue))
	t.TaxableAmount = taxable

	discount := taxable.Mul(decimal.NewFromFloat(extra.AdditionalDiscount)).Div(hundred)
	t.DiscountAmount = discount

	net := taxable.Sub(discount)
	t.NetBeforeTax = net

	tax := decimal.Zero
	if extra.ApplyIGST {
		t.IgstAmount = net.Mul(gstInter).Div(hundred)
		tax = t.IgstAmount
	} else {
		if extra.ApplyCGST {
			t.CgstAmount = net.Mul(gstHalf).Div(hundred)
			tax = tax.Add(t.CgstAmount)
		}
		if extra.ApplySGST {
			t.SgstAmount = net.Mul(gstHalf).Div(hundred)
			tax = tax.Add(t.SgstAmount)
		}
	}

	exact := net.Add(tax)
	t.GrandTotal = exact.Round(0)
	t.RoundOff = t.GrandTotal.Sub(exact)

	return t
}

// Rounded returns a copy with every amount fixed to two decimal places, the
// shape persisted and sent over the wire.
func (t BillTotals) Rounded() BillTotals {
	t.Subtotal = t.Subtotal.Round(2)
	t.PackingAmount = t.PackingAmount.Round(2)
	t.TaxableAmount = t.TaxableAmount.Round(2)
	t.DiscountAmount = t.DiscountAmount.Round(2)
	t.NetBeforeTax = t.NetBeforeTax.Round(2)
	t.CgstAmount = t.CgstAmount.Round(2)
	t.SgstAmount = t.SgstAmount.Round(2)
	t.IgstAmount = t.IgstAmount.Round(2)
	t.RoundOff = t.RoundOff.Round(2)
	t.GrandTotal = t.GrandTotal.Round(2)
	return t
}
