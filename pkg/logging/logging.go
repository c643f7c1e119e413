package logging

import (
	"encoding/json"
	"log"
	"time"
)

// Fields is one structured log line. Zero-valued fields are dropped from
// the output, so callers only set what applies to the event.
type Fields struct {
	Service   string `json:"service"`
	SessionID string `json:"session_id,omitempty"`
	IntentID  string `json:"intent_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Rows      int64  `json:"rows,omitempty"`
	Expected  int    `json:"expected,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Alert writes a single JSON line for operator-visible anomalies. These are
// the events that need acting on (orphaned sessions, payments with no
// matching purchase), as opposed to the request-flow logging done with the
// standard logger.
func Alert(fields Fields) {
	payload := map[string]any{
		"level":     "alert",
		"service":   fields.Service,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"message":   fields.Message,
	}
	if fields.SessionID != "" {
		payload["session_id"] = fields.SessionID
	}
	if fields.IntentID != "" {
		payload["intent_id"] = fields.IntentID
	}
	if fields.EventType != "" {
		payload["event_type"] = fields.EventType
	}
	if fields.Status != "" {
		payload["status"] = fields.Status
	}
	if fields.Rows != 0 || fields.Expected != 0 {
		payload["rows"] = fields.Rows
		payload["expected"] = fields.Expected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"service\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Service, err.Error())
		return
	}
	log.Print(string(data))
}
