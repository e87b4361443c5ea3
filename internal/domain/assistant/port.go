package assistant

import "context"

// Repository port for persisting and querying summaries
type Repository interface {
	Save(ctx context.Context, s *Summary) error
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Summary, error)
	LatestByRecord(ctx context.Context, tenant string, recordID string) (*Summary, error)
}
