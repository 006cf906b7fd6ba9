package core

import (
	"errors"
	"time"
)

const (
	USD Currency = "USD"
	BRL Currency = "BRL"
	ARS Currency = "ARS"

	Tefi Person = "TEFI"
	Facu Person = "FACU"

	PaidByTefi   PaidBy = "TEFI"
	PaidByFacu   PaidBy = "FACU"
	PaidByShared PaidBy = "SHARED"
)

type (
	Currency string
	Person   string
	PaidBy   string

	// Expense is the persisted record. JSON field names are the wire and
	// storage contract and must round-trip losslessly.
	Expense struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Category  string    `json:"category"`
		Date      string    `json:"date"` // YYYY-MM-DD
		Amount    float64   `json:"amount"`
		Currency  Currency  `json:"currency"`
		CreatedBy Person    `json:"createdBy"`
		PaidBy    PaidBy    `json:"paidBy"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// ExpenseInput is a validated creation payload. The repository assigns
	// identity and timestamps.
	ExpenseInput struct {
		Title     string   `json:"title"`
		Category  string   `json:"category"`
		Date      string   `json:"date"`
		Amount    float64  `json:"amount"`
		Currency  Currency `json:"currency"`
		CreatedBy Person   `json:"createdBy"`
		PaidBy    PaidBy   `json:"paidBy"`
	}

	// ExpensePatch carries the subset of mutable fields present in a patch
	// request. Nil means "leave the stored value untouched".
	ExpensePatch struct {
		Title     *string
		Category  *string
		Date      *string
		Amount    *float64
		Currency  *Currency
		CreatedBy *Person
		PaidBy    *PaidBy
	}

	// ConvertedAmount is a read-time projection of an amount into all three
	// supported currencies. Never persisted.
	ConvertedAmount struct {
		USD float64 `json:"usd"`
		BRL float64 `json:"brl"`
		ARS float64 `json:"ars"`
	}

	ExpenseWithConversion struct {
		Expense
		Converted ConvertedAmount `json:"converted"`
	}

	// SessionUser identifies the authenticated household member.
	SessionUser struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	}
)

var (
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrInvalidTitle     = errors.New("title must be a string of at least 2 characters")
	ErrInvalidCategory  = errors.New("category must be a string")
	ErrInvalidDate      = errors.New("date must match YYYY-MM-DD")
	ErrInvalidAmount    = errors.New("amount must be a finite number greater than zero")
	ErrInvalidCurrency  = errors.New("currency must be one of USD, BRL, ARS")
	ErrInvalidCreatedBy = errors.New("createdBy must be one of TEFI, FACU")
	ErrInvalidPaidBy    = errors.New("paidBy must be one of TEFI, FACU, SHARED")
)

func (c Currency) Valid() bool {
	switch c {
	case USD, BRL, ARS:
		return true
	}
	return false
}

func (p Person) Valid() bool {
	switch p {
	case Tefi, Facu:
		return true
	}
	return false
}

func (p PaidBy) Valid() bool {
	switch p {
	case PaidByTefi, PaidByFacu, PaidByShared:
		return true
	}
	return false
}

// IsValidationError reports whether err belongs to the payload-validation
// error class, as opposed to not-found or storage failures.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidPayload, ErrInvalidTitle, ErrInvalidCategory, ErrInvalidDate,
		ErrInvalidAmount, ErrInvalidCurrency, ErrInvalidCreatedBy, ErrInvalidPaidBy,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
