package core

import "testing"

func TestConvertKnownValues(t *testing.T) {
	rates := DefaultRates()

	cases := []struct {
		amount   float64
		currency Currency
		want     ConvertedAmount
	}{
		{100, BRL, ConvertedAmount{USD: 20, BRL: 100, ARS: 28000}},
		{20, USD, ConvertedAmount{USD: 20, BRL: 100, ARS: 28000}},
		{28000, ARS, ConvertedAmount{USD: 20, BRL: 100, ARS: 28000}},
		{1, BRL, ConvertedAmount{USD: 0.2, BRL: 1, ARS: 280}},
		{0.01, USD, ConvertedAmount{USD: 0.01, BRL: 0.05, ARS: 14}},
	}
	for i, tc := range cases {
		got := rates.Convert(tc.amount, tc.currency)
		if got != tc.want {
			t.Fatalf("case %d: Convert(%v, %s) = %+v, want %+v", i, tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestConvertCrossConsistency(t *testing.T) {
	// Converting the BRL component back through the BRL path must reproduce
	// the USD and ARS components within rounding tolerance.
	rates := DefaultRates()
	amounts := []float64{0.01, 1, 19.99, 123.45, 7777.77, 999999.99}
	currencies := []Currency{USD, BRL, ARS}

	for _, amt := range amounts {
		for _, cur := range currencies {
			first := rates.Convert(amt, cur)
			second := rates.Convert(first.BRL, BRL)
			if diff := first.USD - second.USD; diff > 0.01 || diff < -0.01 {
				t.Fatalf("Convert(%v, %s): usd drift %v vs %v", amt, cur, first.USD, second.USD)
			}
			if diff := first.ARS - second.ARS; diff > 2.8 || diff < -2.8 {
				t.Fatalf("Convert(%v, %s): ars drift %v vs %v", amt, cur, first.ARS, second.ARS)
			}
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{19.999, 20},
		{19.994, 19.99},
		{0.004, 0},
		{100, 100},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWithConversion(t *testing.T) {
	rates := DefaultRates()
	expenses := []Expense{
		{ID: "a", Amount: 100, Currency: BRL},
		{ID: "b", Amount: 20, Currency: USD},
	}

	converted := rates.WithConversion(expenses)
	if len(converted) != 2 {
		t.Fatalf("expected 2 converted expenses, got %d", len(converted))
	}
	for i, e := range converted {
		if e.ID != expenses[i].ID {
			t.Fatalf("expense %d: id %q lost in conversion", i, expenses[i].ID)
		}
		want := ConvertedAmount{USD: 20, BRL: 100, ARS: 28000}
		if e.Converted != want {
			t.Fatalf("expense %d: converted = %+v, want %+v", i, e.Converted, want)
		}
	}
}
