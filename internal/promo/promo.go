// Package promo evaluates the static promo-code table against an amount.
package promo

import (
	"errors"
	"strings"
)

var ErrInvalidCode = errors.New("invalid promo code")

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindFixed      Kind = "fixed"
)

type Rule struct {
	Kind        Kind
	Value       int64
	Description string
}

type Result struct {
	PromoCode   string `json:"promoCode"`
	Discount    int64  `json:"discount"`
	FinalAmount int64  `json:"finalAmount"`
	Description string `json:"description"`
}

var codes = map[string]Rule{
	"SAVE10":    {Kind: KindPercentage, Value: 10, Description: "10% off on your booking"},
	"FLAT100":   {Kind: KindFixed, Value: 100, Description: "₹100 off on your booking"},
	"WELCOME20": {Kind: KindPercentage, Value: 20, Description: "20% off for new users"},
}

// Normalize returns the lookup form of a user-supplied code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup finds the rule for code, ignoring case and surrounding spaces.
func Lookup(code string) (Rule, bool) {
	r, ok := codes[Normalize(code)]
	return r, ok
}

// Evaluate applies code to amount. The discount never exceeds the amount and
// the final amount is never negative.
func Evaluate(code string, amount int64) (Result, error) {
	rule, ok := Lookup(code)
	if !ok {
		return Result{}, ErrInvalidCode
	}

	var discount int64
	switch rule.Kind {
	case KindPercentage:
		discount = PercentOf(amount, rule.Value)
	case KindFixed:
		discount = min(rule.Value, amount)
	}

	return Result{
		PromoCode:   Normalize(code),
		Discount:    discount,
		FinalAmount: max(0, amount-discount),
		Description: rule.Description,
	}, nil
}

// PercentOf returns round(amount * pct / 100), rounding halves away from zero.
// The whole hundreds are scaled separately so that amount * pct never
// overflows for pct <= 100.
func PercentOf(amount, pct int64) int64 {
	whole, rest := amount/100, amount%100
	n := rest * pct
	if n >= 0 {
		return whole*pct + (n+50)/100
	}
	return whole*pct + (n-50)/100
}
