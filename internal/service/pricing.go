package service

import (
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/promo"
)

// Pricing is the server-side breakdown of a booking amount.
type Pricing struct {
	Subtotal  int64
	Taxes     int64
	Discount  int64
	Total     int64
	PromoCode *string
}

// Price computes subtotal, taxes and the promo discount. The discount applies
// to subtotal plus taxes, as shown at checkout.
func Price(unitPrice int64, quantity int, taxPercent int64, promoCode string) (Pricing, error) {
	subtotal := unitPrice * int64(quantity)
	taxes := promo.PercentOf(subtotal, taxPercent)
	p := Pricing{
		Subtotal: subtotal,
		Taxes:    taxes,
		Total:    subtotal + taxes,
	}

	if promoCode == "" {
		return p, nil
	}
	res, err := promo.Evaluate(promoCode, p.Total)
	if err != nil {
		return Pricing{}, err
	}
	p.Discount = res.Discount
	p.Total = res.FinalAmount
	p.PromoCode = &res.PromoCode
	return p, nil
}
