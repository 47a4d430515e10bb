package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseCreatedMessage is the lightweight notification published after
// an expense is saved. It carries only the identifiers the worker needs
// to reload the expense and recompute the owner's budget alerts; the
// amounts stay in the database.
type ExpenseCreatedMessage struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Category  string    `json:"category"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseCreatedMessage(id, owner, category string, month, year int) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		ID:        id,
		Owner:     owner,
		Category:  category,
		Month:     month,
		Year:      year,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseCreatedMessageFromJSON(data []byte) (*ExpenseCreatedMessage, error) {
	var msg ExpenseCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
