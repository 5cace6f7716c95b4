package amqp

import (
	"encoding/json"
	"time"
)

// Entities and operations carried by ledger events.
const (
	EntityUser        = "user"
	EntityTransaction = "transaction"
	EntityGoal        = "goal"
	EntityInvestment  = "investment"

	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpReset  = "reset"
)

// LedgerEventMessage describes one mutation of a user's ledger. The
// audit worker archives these; consumers needing the full record fetch
// it from the API.
type LedgerEventMessage struct {
	UserID    int64     `json:"user_id"`
	Entity    string    `json:"entity"`
	Op        string    `json:"op"`
	ItemID    string    `json:"item_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage stamps a mutation event with the current time.
func NewLedgerEventMessage(userID int64, entity, op, itemID string) *LedgerEventMessage {
	return &LedgerEventMessage{
		UserID:    userID,
		Entity:    entity,
		Op:        op,
		ItemID:    itemID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
