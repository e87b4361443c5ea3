package assistant

import "time"

// SummaryID identifier type
type SummaryID string

// Summary is an AI-produced record summary stored for auditing and retrieval
type Summary struct {
	ID        SummaryID `json:"id"`
	TenantID  string    `json:"tenant_id"`
	RecordID  string    `json:"record_id,omitempty"`
	Result    string    `json:"result"` // JSON string from AI
	CreatedAt time.Time `json:"created_at"`
}
