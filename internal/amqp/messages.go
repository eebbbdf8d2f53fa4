package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"wealthwatcher/internal/core"
)

// RecordChangedMessage announces that a user's collection was replaced. It
// carries no record data: consumers fetch the current snapshot themselves.
type RecordChangedMessage struct {
	UserID     string          `json:"user_id"`
	Collection core.Collection `json:"collection"`
	Timestamp  time.Time       `json:"timestamp"`
}

var errIncompleteMessage = errors.New("message missing user_id")

func NewRecordChangedMessage(userID string, c core.Collection) *RecordChangedMessage {
	return &RecordChangedMessage{
		UserID:     userID,
		Collection: c,
		Timestamp:  time.Now(),
	}
}

func (m *RecordChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangedMessageFromJSON decodes a message body. A body without a user
// id is rejected.
func RecordChangedMessageFromJSON(data []byte) (*RecordChangedMessage, error) {
	var msg RecordChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, errIncompleteMessage
	}
	return &msg, nil
}
