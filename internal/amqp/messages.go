package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Change actions carried by ChangeMessage.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeMessage announces that a row of an owned resource was created,
// updated or deleted. Consumers re-read the row from the database when they
// need its contents.
type ChangeMessage struct {
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(resource, action string, id, userID int64) *ChangeMessage {
	return &ChangeMessage{
		Resource:  resource,
		Action:    action,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ChangeMessage) Validate() error {
	if m.Resource == "" {
		return errors.New("resource is required")
	}
	switch m.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
	if m.ID <= 0 {
		return fmt.Errorf("invalid id %d", m.ID)
	}
	return nil
}

// RoutingKey is "<resource>.<action>".
func (m *ChangeMessage) RoutingKey() string {
	return m.Resource + "." + m.Action
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid change message: %w", err)
	}
	return &msg, nil
}
