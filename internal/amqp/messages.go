package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Change operations carried by EntityChangedMessage.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// EntityChangedMessage announces a committed write. It carries identity
// only; consumers read current state from storage.
type EntityChangedMessage struct {
	Kind       string    `json:"kind"`
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId,omitempty"`
	Op         string    `json:"op"`
	Revision   uint64    `json:"revision"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewEntityChangedMessage(kind, id, propertyID, op string, revision uint64) *EntityChangedMessage {
	return &EntityChangedMessage{
		Kind:       kind,
		ID:         id,
		PropertyID: propertyID,
		Op:         op,
		Revision:   revision,
		Timestamp:  time.Now().UTC(),
	}
}

func (m *EntityChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntityChangedMessageFromJSON decodes and sanity-checks a message body.
func EntityChangedMessageFromJSON(data []byte) (*EntityChangedMessage, error) {
	var msg EntityChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind == "" || msg.ID == "" {
		return nil, fmt.Errorf("entity changed message missing kind or id")
	}
	return &msg, nil
}
