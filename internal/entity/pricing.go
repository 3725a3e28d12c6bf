package domain

import "github.com/shopspring/decimal"

// Pricing holds the checkout quote rules: a flat shipping fee waived above a
// threshold, and a fixed tax rate on the subtotal.
type Pricing struct {
	Currency                   string
	FreeShippingThresholdCents int64
	FlatShippingCents          int64
	TaxRate                    decimal.Decimal
}

type Totals struct {
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
}

// Quote computes the frozen money fields of an order. Tax is computed in
// decimal and rounded half-up to whole cents to keep float drift out of
// money math.
func (p Pricing) Quote(subtotalCents int64) Totals {
	shipping := p.FlatShippingCents
	if subtotalCents > p.FreeShippingThresholdCents {
		shipping = 0
	}
	tax := decimal.NewFromInt(subtotalCents).Mul(p.TaxRate).Round(0).IntPart()
	return Totals{
		SubtotalCents: subtotalCents,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotalCents + shipping + tax,
	}
}
