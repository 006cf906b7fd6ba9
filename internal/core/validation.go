package core

import (
	"math"
	"regexp"
	"strings"
)

// Date pattern only: 4 digits, dash, 2 digits, dash, 2 digits. Calendar
// validity is intentionally not checked, so "2026-13-40" passes this layer.
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateExpenseInput normalizes an untyped payload into an ExpenseInput.
// It is total over arbitrary input: every rejection is a sentinel error,
// never a panic. Title and category are stored trimmed; the amount is
// rounded to 2 decimals at ingestion.
func ValidateExpenseInput(payload map[string]any) (ExpenseInput, error) {
	var in ExpenseInput
	if payload == nil {
		return in, ErrInvalidPayload
	}

	title, err := stringField(payload, "title", ErrInvalidTitle)
	if err != nil {
		return in, err
	}
	title = strings.TrimSpace(title)
	if len([]rune(title)) < 2 {
		return in, ErrInvalidTitle
	}

	category, err := stringField(payload, "category", ErrInvalidCategory)
	if err != nil {
		return in, err
	}

	date, err := stringField(payload, "date", ErrInvalidDate)
	if err != nil {
		return in, err
	}
	if !dateRe.MatchString(date) {
		return in, ErrInvalidDate
	}

	amount, err := numberField(payload, "amount")
	if err != nil {
		return in, err
	}

	currency, err := stringField(payload, "currency", ErrInvalidCurrency)
	if err != nil {
		return in, err
	}
	if !Currency(currency).Valid() {
		return in, ErrInvalidCurrency
	}

	createdBy, err := stringField(payload, "createdBy", ErrInvalidCreatedBy)
	if err != nil {
		return in, err
	}
	if !Person(createdBy).Valid() {
		return in, ErrInvalidCreatedBy
	}

	paidBy, err := stringField(payload, "paidBy", ErrInvalidPaidBy)
	if err != nil {
		return in, err
	}
	if !PaidBy(paidBy).Valid() {
		return in, ErrInvalidPaidBy
	}

	return ExpenseInput{
		Title:     title,
		Category:  strings.TrimSpace(category),
		Date:      date,
		Amount:    Round2(amount),
		Currency:  Currency(currency),
		CreatedBy: Person(createdBy),
		PaidBy:    PaidBy(paidBy),
	}, nil
}

// ValidateExpensePatch validates only the fields present in the payload.
// Patches are partial: an absent field leaves the stored value untouched,
// a present field must pass the same rule as on creation.
func ValidateExpensePatch(payload map[string]any) (ExpensePatch, error) {
	var p ExpensePatch
	if payload == nil {
		return p, ErrInvalidPayload
	}

	if raw, ok := payload["title"]; ok {
		title, ok := raw.(string)
		title = strings.TrimSpace(title)
		if !ok || len([]rune(title)) < 2 {
			return ExpensePatch{}, ErrInvalidTitle
		}
		p.Title = &title
	}

	if raw, ok := payload["category"]; ok {
		category, ok := raw.(string)
		if !ok {
			return ExpensePatch{}, ErrInvalidCategory
		}
		category = strings.TrimSpace(category)
		p.Category = &category
	}

	if raw, ok := payload["date"]; ok {
		date, ok := raw.(string)
		if !ok || !dateRe.MatchString(date) {
			return ExpensePatch{}, ErrInvalidDate
		}
		p.Date = &date
	}

	if raw, ok := payload["amount"]; ok {
		amount, ok := raw.(float64)
		if !ok || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
			return ExpensePatch{}, ErrInvalidAmount
		}
		rounded := Round2(amount)
		p.Amount = &rounded
	}

	if raw, ok := payload["currency"]; ok {
		s, ok := raw.(string)
		currency := Currency(s)
		if !ok || !currency.Valid() {
			return ExpensePatch{}, ErrInvalidCurrency
		}
		p.Currency = &currency
	}

	if raw, ok := payload["createdBy"]; ok {
		s, ok := raw.(string)
		person := Person(s)
		if !ok || !person.Valid() {
			return ExpensePatch{}, ErrInvalidCreatedBy
		}
		p.CreatedBy = &person
	}

	if raw, ok := payload["paidBy"]; ok {
		s, ok := raw.(string)
		paidBy := PaidBy(s)
		if !ok || !paidBy.Valid() {
			return ExpensePatch{}, ErrInvalidPaidBy
		}
		p.PaidBy = &paidBy
	}

	return p, nil
}

// Apply merges the patch over an existing record. The id and createdAt are
// never touched; the caller refreshes updatedAt.
func (p ExpensePatch) Apply(e *Expense) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Currency != nil {
		e.Currency = *p.Currency
	}
	if p.CreatedBy != nil {
		e.CreatedBy = *p.CreatedBy
	}
	if p.PaidBy != nil {
		e.PaidBy = *p.PaidBy
	}
}

func stringField(payload map[string]any, key string, invalid error) (string, error) {
	raw, ok := payload[key]
	if !ok {
		return "", invalid
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalid
	}
	return s, nil
}

func numberField(payload map[string]any, key string) (float64, error) {
	raw, ok := payload[key]
	if !ok {
		return 0, ErrInvalidAmount
	}
	// encoding/json decodes every JSON number into float64.
	n, ok := raw.(float64)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0, ErrInvalidAmount
	}
	return n, nil
}
