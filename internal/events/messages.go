package events

import (
	"encoding/json"
	"time"
)

const (
	ExpenseCreated EventType = "expense.created"
	ExpenseUpdated EventType = "expense.updated"
	ExpenseDeleted EventType = "expense.deleted"
)

type EventType string

// ExpenseEventMessage announces a ledger mutation. It carries only the
// expense id; interested consumers fetch the current record themselves.
type ExpenseEventMessage struct {
	Event     EventType `json:"event"`
	ExpenseID string    `json:"expenseId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(event EventType, expenseID string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Event:     event,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
