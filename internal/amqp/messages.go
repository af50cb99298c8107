package amqp

import (
	"encoding/json"
	"time"

	"mortgage/internal/core"
)

// PaymentRecomputedMessage announces one accepted calculator edit.
// It carries the full state so consumers never need to call back.
type PaymentRecomputedMessage struct {
	SessionID string                  `json:"session_id"`
	Field     string                  `json:"field"`
	Revision  uint64                  `json:"revision"`
	Params    core.LoanParameters     `json:"params"`
	Result    core.AmortizationResult `json:"result"`
	Timestamp time.Time               `json:"timestamp"`
}

// NewPaymentRecomputedMessage stamps a message with the current time
func NewPaymentRecomputedMessage(sessionID, field string, revision uint64, params core.LoanParameters, result core.AmortizationResult) *PaymentRecomputedMessage {
	return &PaymentRecomputedMessage{
		SessionID: sessionID,
		Field:     field,
		Revision:  revision,
		Params:    params,
		Result:    result,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PaymentRecomputedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PaymentRecomputedMessageFromJSON decodes a message body
func PaymentRecomputedMessageFromJSON(data []byte) (*PaymentRecomputedMessage, error) {
	var msg PaymentRecomputedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
