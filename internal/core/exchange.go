// Package core holds the trip ledger domain: expense records, payload
// validation, fixed-rate currency conversion and contribution summaries.
package core

import "math"

// Rates is the fixed cross-rate table, built once at process start and
// passed into the ledger service. BRL is the pivot currency.
type Rates struct {
	BRLToARS float64
	BRLToUSD float64
	// USDToBRL must equal 1/BRLToUSD; kept explicit so conversion stays a
	// multiplication on both paths.
	USDToBRL float64
}

// DefaultRates returns the trip's agreed rates: 1 BRL = 280 ARS, 1 USD = 5 BRL.
func DefaultRates() Rates {
	return Rates{
		BRLToARS: 280,
		BRLToUSD: 0.2,
		USDToBRL: 5,
	}
}

// Round2 rounds to the nearest cent, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// toBRL maps an amount in its native currency to the BRL intermediate value.
func (r Rates) toBRL(amount float64, currency Currency) float64 {
	switch currency {
	case BRL:
		return amount
	case USD:
		return amount * r.USDToBRL
	default: // ARS
		return amount / r.BRLToARS
	}
}

// Convert projects amount into all three currencies, rounding each component
// to 2 decimals. Pure and deterministic; invalid amounts are rejected by
// validation before they reach this point.
func (r Rates) Convert(amount float64, currency Currency) ConvertedAmount {
	brl := r.toBRL(amount, currency)
	return ConvertedAmount{
		BRL: Round2(brl),
		USD: Round2(brl * r.BRLToUSD),
		ARS: Round2(brl * r.BRLToARS),
	}
}

// WithConversion decorates each expense with its converted amounts.
func (r Rates) WithConversion(expenses []Expense) []ExpenseWithConversion {
	out := make([]ExpenseWithConversion, len(expenses))
	for i, e := range expenses {
		out[i] = ExpenseWithConversion{
			Expense:   e,
			Converted: r.Convert(e.Amount, e.Currency),
		}
	}
	return out
}
