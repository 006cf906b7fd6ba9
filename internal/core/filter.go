package core

import "strings"

// Filter narrows a ledger view before summarizing. Zero values mean
// "no constraint". Date bounds are inclusive and compare lexicographically,
// which is correct for YYYY-MM-DD strings.
type Filter struct {
	From     string
	To       string
	PaidBy   PaidBy
	Category string
}

func (f Filter) Match(e Expense) bool {
	if f.From != "" && e.Date < f.From {
		return false
	}
	if f.To != "" && e.Date > f.To {
		return false
	}
	if f.PaidBy != "" && e.PaidBy != f.PaidBy {
		return false
	}
	if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
		return false
	}
	return true
}

// Apply keeps the expenses matching the filter, preserving order.
func (f Filter) Apply(expenses []Expense) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
