package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"cleanlog/internal/core"

	"github.com/google/uuid"
)

// MessageTypeActivityRegistered is set as the AMQP type of every activity event.
const MessageTypeActivityRegistered = "cleanlog.activity_registered"

// ActivityRegisteredMessage announces a newly stored activity. It carries the
// ID plus a few display fields; consumers load the full record from the store.
type ActivityRegisteredMessage struct {
	MessageID     string    `json:"message_id"`
	ID            int64     `json:"id"`
	ApartmentCode string    `json:"apartment_code"`
	ActivityType  string    `json:"activity_type"`
	Date          string    `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewActivityRegisteredMessage(a core.CleaningActivity) *ActivityRegisteredMessage {
	return &ActivityRegisteredMessage{
		MessageID:     uuid.NewString(),
		ID:            a.ID,
		ApartmentCode: a.Apartment.Code,
		ActivityType:  string(a.Type()),
		Date:          a.Date.String(),
		Timestamp:     time.Now().UTC(),
	}
}

func (m *ActivityRegisteredMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ActivityRegisteredMessageFromJSON decodes data and rejects messages without an activity ID.
func ActivityRegisteredMessageFromJSON(data []byte) (*ActivityRegisteredMessage, error) {
	var msg ActivityRegisteredMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID <= 0 {
		return nil, errors.New("activity message without id")
	}
	return &msg, nil
}
