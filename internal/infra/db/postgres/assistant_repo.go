package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/medtrust/internal/domain/assistant"
)

type AssistantRepository struct{ db *sql.DB }

func NewAssistantRepository(db *sql.DB) *AssistantRepository { return &AssistantRepository{db: db} }

// Save inserts a summary record
func (r *AssistantRepository) Save(ctx context.Context, s *domain.Summary) error {
	const q = `
INSERT INTO record_summaries
  (id, tenant_id, record_id, result_json, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET
  tenant_id = EXCLUDED.tenant_id,
  record_id = EXCLUDED.record_id,
  result_json = EXCLUDED.result_json;`

	tenant := stringOrDash(s.TenantID)
	result := s.Result
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, s.ID, tenant, s.RecordID, result, createdAt)
	return err
}

// Paginate returns a page of summaries ordered by created_at desc
func (r *AssistantRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Summary, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, record_id, result_json, created_at
FROM record_summaries
WHERE tenant_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;`

	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Summary
	for rows.Next() {
		var s domain.Summary
		if err := rows.Scan(&s.ID, &s.TenantID, &s.RecordID, &s.Result, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// LatestByRecord returns the most recent summary for one record
func (r *AssistantRepository) LatestByRecord(ctx context.Context, tenant string, recordID string) (*domain.Summary, error) {
	const q = `
SELECT id, tenant_id, record_id, result_json, created_at
FROM record_summaries
WHERE tenant_id=$1 AND record_id=$2
ORDER BY created_at DESC, id DESC
LIMIT 1;`

	var s domain.Summary
	if err := r.db.QueryRowContext(ctx, q, tenant, recordID).Scan(&s.ID, &s.TenantID, &s.RecordID, &s.Result, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
