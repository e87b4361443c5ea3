package records

import (
	"context"
	"time"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, rec *HealthRecord) error
	Get(ctx context.Context, tenant string, id RecordID) (*HealthRecord, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*HealthRecord, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (PaginatedResult, error)
	Count(ctx context.Context, tenant string, filters map[string]interface{}) (int64, error)
	Stats(ctx context.Context, tenant string, sinceDays int) (Stats, error)

	// AppendAccess adds one entry to the record's append-only access history.
	AppendAccess(ctx context.Context, tenant string, id RecordID, e AccessEntry) error
	UpdateAnalysis(ctx context.Context, tenant string, id RecordID, a AnalysisResult) error
	UpdateVerification(ctx context.Context, tenant string, id RecordID, status VerificationStatus, verifiedBy string, at time.Time) error
	Archive(ctx context.Context, tenant string, id RecordID) error
}

// AttachmentStore port (interface untuk penyimpanan lampiran)
type AttachmentStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
}

// Stats is the verification rollup for a tenant over a window.
type Stats struct {
	Total    int `json:"total_records"`
	Verified int `json:"verified"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
	Flagged  int `json:"flagged"` // analyzed with authenticity score < 50
}
