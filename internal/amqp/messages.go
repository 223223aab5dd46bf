package amqp

import (
	"encoding/json"
	"time"

	"trackmyfin/internal/export"
)

// ExportJobMessage tells the worker to render an export for a user.
// The worker loads the user's snapshot by owner, so the message only
// carries the export request itself.
type ExportJobMessage struct {
	JobID     string         `json:"job_id"`
	Owner     string         `json:"owner"`
	Request   export.Request `json:"request"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewExportJobMessage(jobID, owner string, req export.Request) *ExportJobMessage {
	return &ExportJobMessage{
		JobID:     jobID,
		Owner:     owner,
		Request:   req,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExportJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func ExportJobMessageFromJSON(data []byte) (*ExportJobMessage, error) {
	var msg ExportJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
