package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/medtrust/internal/application"
	"github.com/bryanwahyu/medtrust/internal/domain/authenticity"
	domain "github.com/bryanwahyu/medtrust/internal/domain/records"
)

// DefaultMaxAccessLog caps how large an access history the analyzer will
// accept. The cap is a boundary defense; the scoring logic itself has no
// size limits.
const DefaultMaxAccessLog = 10000

// ErrAccessLogTooLarge rejects analysis of a record whose access history
// exceeds the configured cap.
var ErrAccessLogTooLarge = errors.New("access log exceeds maximum size")

// Service implements use-cases for health records.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo         domain.Repository
	Attachments  domain.AttachmentStore
	Clock        application.Clock
	MaxAccessLog int
}

//
// ==== USE CASES ====
//

// CreateRecordCommand carries the caller-supplied fields for a new record.
type CreateRecordCommand struct {
	TenantID    string
	AthleteID   string
	Type        string
	Title       string
	Description string
	Date        time.Time
	Provider    *domain.Provider
	Diagnosis   *domain.Diagnosis
	Treatment   *domain.Treatment
	FollowUp    *domain.FollowUp
}

// UpdateRecordCommand carries field-wise updates; nil/empty fields keep
// their current value, matching the merge semantics of the API.
type UpdateRecordCommand struct {
	Title       string
	Description string
	Date        *time.Time
	Provider    *domain.Provider
	Diagnosis   *domain.Diagnosis
	Treatment   *domain.Treatment
	FollowUp    *domain.FollowUp
}

// Actor identifies who performed an operation, for the access log.
type Actor struct {
	User      string
	IPAddress string
}

// Create stores a new record with a fresh ID and pending verification.
func (s *Service) Create(ctx context.Context, cmd CreateRecordCommand) (*domain.HealthRecord, error) {
	now := s.Clock.Now()

	rec := &domain.HealthRecord{
		ID:                 domain.RecordID(uuid.New().String()),
		TenantID:           cmd.TenantID,
		AthleteID:          cmd.AthleteID,
		Type:               domain.RecordType(cmd.Type),
		Title:              cmd.Title,
		Description:        cmd.Description,
		Date:               cmd.Date,
		Provider:           cmd.Provider,
		Diagnosis:          cmd.Diagnosis,
		Treatment:          cmd.Treatment,
		FollowUp:           cmd.FollowUp,
		VerificationStatus: domain.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get fetches one record and logs the view afterwards.
func (s *Service) Get(ctx context.Context, tenant string, id domain.RecordID, actor Actor) (*domain.HealthRecord, error) {
	rec, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	_ = s.Repo.AppendAccess(ctx, tenant, id, s.accessEntry(actor, domain.ActionView))
	return rec, nil
}

// Update merges non-empty fields into the stored record and logs the update.
func (s *Service) Update(ctx context.Context, tenant string, id domain.RecordID, cmd UpdateRecordCommand, actor Actor) (*domain.HealthRecord, error) {
	rec, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	if cmd.Title != "" {
		rec.Title = cmd.Title
	}
	if cmd.Description != "" {
		rec.Description = cmd.Description
	}
	if cmd.Date != nil {
		rec.Date = *cmd.Date
	}
	if cmd.Provider != nil {
		rec.Provider = cmd.Provider
	}
	if cmd.Diagnosis != nil {
		rec.Diagnosis = cmd.Diagnosis
	}
	if cmd.Treatment != nil {
		rec.Treatment = cmd.Treatment
	}
	if cmd.FollowUp != nil {
		rec.FollowUp = cmd.FollowUp
	}
	rec.UpdatedAt = s.Clock.Now()

	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, err
	}

	_ = s.Repo.AppendAccess(ctx, tenant, id, s.accessEntry(actor, domain.ActionUpdate))
	return rec, nil
}

// Archive soft-deletes a record and logs the deletion.
func (s *Service) Archive(ctx context.Context, tenant string, id domain.RecordID, actor Actor) error {
	if err := s.Repo.Archive(ctx, tenant, id); err != nil {
		return err
	}
	return s.Repo.AppendAccess(ctx, tenant, id, s.accessEntry(actor, domain.ActionDelete))
}

// Verify sets the verification outcome and logs the action.
func (s *Service) Verify(ctx context.Context, tenant string, id domain.RecordID, status domain.VerificationStatus, actor Actor) error {
	if status != domain.VerificationVerified && status != domain.VerificationRejected {
		return fmt.Errorf("invalid verification status: %s", status)
	}

	if err := s.Repo.UpdateVerification(ctx, tenant, id, status, actor.User, s.Clock.Now()); err != nil {
		return err
	}
	return s.Repo.AppendAccess(ctx, tenant, id, s.accessEntry(actor, domain.ActionVerify))
}

// Analyze runs the authenticity engine over the stored snapshot, persists
// the result onto the record, and logs the analysis. The access entry is
// appended after the run, so it is not seen by the run that produced it.
func (s *Service) Analyze(ctx context.Context, tenant string, id domain.RecordID, actor Actor) (domain.AnalysisResult, error) {
	rec, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	if max := s.maxAccessLog(); len(rec.AccessLog) > max {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %d entries (max %d)", ErrAccessLogTooLarge, len(rec.AccessLog), max)
	}

	res, err := authenticity.Analyze(rec, s.Clock.Now())
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	if err := s.Repo.UpdateAnalysis(ctx, tenant, id, res); err != nil {
		return domain.AnalysisResult{}, err
	}

	_ = s.Repo.AppendAccess(ctx, tenant, id, s.accessEntry(actor, domain.ActionAnalyze))
	return res, nil
}

// AttachFile uploads a local file to object storage and records the
// attachment on the record.
func (s *Service) AttachFile(ctx context.Context, tenant string, id domain.RecordID, localPath, fileName, fileType string, actor Actor) (*domain.HealthRecord, error) {
	rec, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s", tenant, id, fileName)
	url, err := s.Attachments.UploadAndCleanup(ctx, localPath, key)
	if err != nil {
		return nil, err
	}

	rec.Attachments = append(rec.Attachments, domain.Attachment{
		FileName:   fileName,
		FileType:   fileType,
		FileURL:    url,
		UploadDate: s.Clock.Now(),
	})
	rec.UpdatedAt = s.Clock.Now()

	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, err
	}

	_ = s.Repo.AppendAccess(ctx, tenant, id, s.accessEntry(actor, domain.ActionUpdate))
	return rec, nil
}

// Latest returns the N most recent records for a tenant.
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.HealthRecord, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Paginate returns a page of records with optional filters.
func (s *Service) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize, filters)
}

// Stats returns the verification rollup over the last N days.
func (s *Service) Stats(ctx context.Context, tenant string, sinceDays int) (domain.Stats, error) {
	return s.Repo.Stats(ctx, tenant, sinceDays)
}

func (s *Service) accessEntry(actor Actor, action domain.Action) domain.AccessEntry {
	return domain.AccessEntry{
		User:      actor.User,
		Action:    action,
		Timestamp: s.Clock.Now(),
		IPAddress: actor.IPAddress,
	}
}

func (s *Service) maxAccessLog() int {
	if s.MaxAccessLog > 0 {
		return s.MaxAccessLog
	}
	return DefaultMaxAccessLog
}
