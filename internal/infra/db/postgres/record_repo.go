package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	domain "github.com/bryanwahyu/medtrust/internal/domain/records"
)

type RecordRepository struct{ db *sql.DB }

func NewRecordRepository(db *sql.DB) *RecordRepository { return &RecordRepository{db: db} }

const recordColumns = `id, tenant_id, athlete_id, record_type, title, description, record_date,
       provider_json, diagnosis_json, treatment_json, followup_json, attachments_json,
       verification_status, verified_by, verification_date,
       analysis_json, access_log_json, archived, created_at, updated_at`

// Save insert/update HealthRecord
func (r *RecordRepository) Save(ctx context.Context, rec *domain.HealthRecord) error {
	const q = `
INSERT INTO health_records
(id, tenant_id, athlete_id, record_type, title, description, record_date,
 provider_json, diagnosis_json, treatment_json, followup_json, attachments_json,
 verification_status, verified_by, verification_date,
 analysis_json, access_log_json, archived, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,
        $8,$9,$10,$11,$12,
        $13,$14,$15,
        $16,$17,$18,$19,$20)
ON CONFLICT (id) DO UPDATE SET
 title = EXCLUDED.title,
 description = EXCLUDED.description,
 record_date = EXCLUDED.record_date,
 provider_json = EXCLUDED.provider_json,
 diagnosis_json = EXCLUDED.diagnosis_json,
 treatment_json = EXCLUDED.treatment_json,
 followup_json = EXCLUDED.followup_json,
 attachments_json = EXCLUDED.attachments_json,
 verification_status = EXCLUDED.verification_status,
 verified_by = EXCLUDED.verified_by,
 verification_date = EXCLUDED.verification_date,
 archived = EXCLUDED.archived,
 updated_at = EXCLUDED.updated_at;`

	provider, err := encodeJSON(rec.Provider != nil, rec.Provider)
	if err != nil {
		return err
	}
	diagnosis, err := encodeJSON(rec.Diagnosis != nil, rec.Diagnosis)
	if err != nil {
		return err
	}
	treatment, err := encodeJSON(rec.Treatment != nil, rec.Treatment)
	if err != nil {
		return err
	}
	followUp, err := encodeJSON(rec.FollowUp != nil, rec.FollowUp)
	if err != nil {
		return err
	}
	attachments, err := encodeList(rec.Attachments, len(rec.Attachments) == 0)
	if err != nil {
		return err
	}
	analysis, err := encodeJSON(rec.Analysis != nil, rec.Analysis)
	if err != nil {
		return err
	}
	accessLog, err := encodeList(rec.AccessLog, len(rec.AccessLog) == 0)
	if err != nil {
		return err
	}

	var verifiedAt any
	if rec.VerificationDate != nil {
		verifiedAt = *rec.VerificationDate
	}

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	_, err = r.db.ExecContext(ctx, q,
		rec.ID, stringOrDash(rec.TenantID), rec.AthleteID, stringOrDash(string(rec.Type)),
		rec.Title, rec.Description, rec.Date,
		provider, diagnosis, treatment, followUp, attachments,
		stringOrDash(string(rec.VerificationStatus)), rec.VerifiedBy, verifiedAt,
		analysis, accessLog, rec.Archived, created, updated,
	)
	return err
}

// Get by ID + Tenant
func (r *RecordRepository) Get(ctx context.Context, tenant string, id domain.RecordID) (*domain.HealthRecord, error) {
	q := `
SELECT ` + recordColumns + `
FROM health_records
WHERE tenant_id=$1 AND id=$2
LIMIT 1;`
	return scanRecord(r.db.QueryRowContext(ctx, q, tenant, id))
}

// Latest records per tenant
func (r *RecordRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.HealthRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `
SELECT ` + recordColumns + `
FROM health_records
WHERE tenant_id=$1 AND archived=FALSE ORDER BY record_date DESC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.HealthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Paginate with offset + limit (classic pagination)
func (r *RecordRepository) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `
SELECT ` + recordColumns + `
FROM health_records
WHERE tenant_id=$1 AND archived=FALSE`

	args := []interface{}{tenant}
	next := 2
	query, args, next = applyFilters(query, args, next, filters)

	query += fmt.Sprintf("\n ORDER BY record_date DESC LIMIT $%d OFFSET $%d", next, next+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var recs []*domain.HealthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	total, err := r.Count(ctx, tenant, filters)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       recs,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Count returns the total number of records matching the given filters
func (r *RecordRepository) Count(ctx context.Context, tenant string, filters map[string]interface{}) (int64, error) {
	query := "SELECT COUNT(*) FROM health_records WHERE tenant_id = $1 AND archived=FALSE"
	args := []interface{}{tenant}
	next := 2
	query, args, _ = applyFilters(query, args, next, filters)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Stats rolls up verification outcomes since N days
func (r *RecordRepository) Stats(ctx context.Context, tenant string, sinceDays int) (domain.Stats, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total_records,
       COALESCE(SUM(CASE WHEN verification_status='verified' THEN 1 ELSE 0 END),0) AS verified,
       COALESCE(SUM(CASE WHEN verification_status='pending'  THEN 1 ELSE 0 END),0) AS pending,
       COALESCE(SUM(CASE WHEN verification_status='rejected' THEN 1 ELSE 0 END),0) AS rejected,
       COALESCE(SUM(CASE WHEN (analysis_json->'authenticity'->>'score')::int < 50 THEN 1 ELSE 0 END),0) AS flagged
FROM health_records
WHERE tenant_id=$1 AND archived=FALSE AND created_at >= $2;`

	var st domain.Stats
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&st.Total, &st.Verified, &st.Pending, &st.Rejected, &st.Flagged); err != nil {
		return domain.Stats{}, err
	}
	return st, nil
}

// AppendAccess appends one entry to the jsonb access log column.
func (r *RecordRepository) AppendAccess(ctx context.Context, tenant string, id domain.RecordID, e domain.AccessEntry) error {
	const q = `
UPDATE health_records
SET access_log_json = COALESCE(access_log_json, '[]'::jsonb) || $1::jsonb
WHERE tenant_id = $2 AND id = $3;`

	entry, err := encodeJSON(true, e)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, entry, tenant, id)
	return err
}

// UpdateAnalysis overwrites the stored analysis result for a record.
func (r *RecordRepository) UpdateAnalysis(ctx context.Context, tenant string, id domain.RecordID, a domain.AnalysisResult) error {
	const q = `
UPDATE health_records
SET analysis_json = $1
WHERE tenant_id = $2 AND id = $3;`

	analysis, err := encodeJSON(true, a)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, analysis, tenant, id)
	return err
}

// UpdateVerification sets the verification outcome columns.
func (r *RecordRepository) UpdateVerification(ctx context.Context, tenant string, id domain.RecordID, status domain.VerificationStatus, verifiedBy string, at time.Time) error {
	const q = `
UPDATE health_records
SET verification_status = $1, verified_by = $2, verification_date = $3
WHERE tenant_id = $4 AND id = $5;`

	_, err := r.db.ExecContext(ctx, q, status, verifiedBy, at, tenant, id)
	return err
}

// Archive soft-deletes a record.
func (r *RecordRepository) Archive(ctx context.Context, tenant string, id domain.RecordID) error {
	const q = `
UPDATE health_records
SET archived = TRUE
WHERE tenant_id = $1 AND id = $2;`

	_, err := r.db.ExecContext(ctx, q, tenant, id)
	return err
}

func applyFilters(query string, args []interface{}, next int, filters map[string]interface{}) (string, []interface{}, int) {
	if filters == nil {
		return query, args, next
	}
	for key, value := range filters {
		switch key {
		case "type":
			query += fmt.Sprintf(" AND record_type = $%d", next)
			args = append(args, value)
			next++
		case "status":
			query += fmt.Sprintf(" AND verification_status = $%d", next)
			args = append(args, value)
			next++
		case "athlete":
			query += fmt.Sprintf(" AND athlete_id = $%d", next)
			args = append(args, value)
			next++
		case "keyword":
			term := escapeLikePattern(value.(string))
			query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", next, next+1)
			args = append(args, "%"+term+"%", "%"+term+"%")
			next += 2
		}
	}
	return query, args, next
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.HealthRecord, error) {
	var rec domain.HealthRecord
	var provider, diagnosis, treatment, followUp, attachments, analysis, accessLog sql.NullString
	var verifiedAt sql.NullTime

	if err := row.Scan(
		&rec.ID, &rec.TenantID, &rec.AthleteID, &rec.Type, &rec.Title, &rec.Description, &rec.Date,
		&provider, &diagnosis, &treatment, &followUp, &attachments,
		&rec.VerificationStatus, &rec.VerifiedBy, &verifiedAt,
		&analysis, &accessLog, &rec.Archived, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if provider.Valid && provider.String != "" && provider.String != "null" {
		rec.Provider = &domain.Provider{}
		if err := decodeJSON(provider, rec.Provider); err != nil {
			return nil, err
		}
	}
	if diagnosis.Valid && diagnosis.String != "" && diagnosis.String != "null" {
		rec.Diagnosis = &domain.Diagnosis{}
		if err := decodeJSON(diagnosis, rec.Diagnosis); err != nil {
			return nil, err
		}
	}
	if treatment.Valid && treatment.String != "" && treatment.String != "null" {
		rec.Treatment = &domain.Treatment{}
		if err := decodeJSON(treatment, rec.Treatment); err != nil {
			return nil, err
		}
	}
	if followUp.Valid && followUp.String != "" && followUp.String != "null" {
		rec.FollowUp = &domain.FollowUp{}
		if err := decodeJSON(followUp, rec.FollowUp); err != nil {
			return nil, err
		}
	}
	if analysis.Valid && analysis.String != "" && analysis.String != "null" {
		rec.Analysis = &domain.AnalysisResult{}
		if err := decodeJSON(analysis, rec.Analysis); err != nil {
			return nil, err
		}
	}
	if err := decodeJSON(attachments, &rec.Attachments); err != nil {
		return nil, err
	}
	if err := decodeJSON(accessLog, &rec.AccessLog); err != nil {
		return nil, err
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		rec.VerificationDate = &t
	}

	return &rec, nil
}
