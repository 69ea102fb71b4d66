package wizard

import "encoding/json"

type EventRequest struct {
	Type    string          `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

type JumpRequest struct {
	Step Step `json:"step" binding:"required"`
}
