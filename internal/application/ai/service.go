package ai

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/bryanwahyu/medtrust/internal/application"
	"github.com/bryanwahyu/medtrust/internal/domain/ai"
	"github.com/bryanwahyu/medtrust/internal/domain/assistant"
	domain "github.com/bryanwahyu/medtrust/internal/domain/records"
)

// Service fronts the conversational assistant and the record summarizer.
type Service struct {
	client ai.Client
	repo   assistant.Repository
	clock  application.Clock
}

func NewService(client ai.Client, repo assistant.Repository, clock application.Clock) *Service {
	return &Service{client: client, repo: repo, clock: clock}
}

// Chat forwards a free-form question to the assistant.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	return s.client.Chat(ctx, message)
}

// SummarizeAndStore asks the model for a structured summary of a record and
// persists the reply for later retrieval.
func (s *Service) SummarizeAndStore(ctx context.Context, tenant string, rec *domain.HealthRecord) (*assistant.Summary, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	result, err := s.client.Summarize(ctx, string(payload))
	if err != nil {
		return nil, err
	}

	sum := &assistant.Summary{
		ID:        assistant.SummaryID(uuid.New().String()),
		TenantID:  tenant,
		RecordID:  string(rec.ID),
		Result:    result,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Save(ctx, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// ListSummaries returns a page of stored summaries for a tenant.
func (s *Service) ListSummaries(ctx context.Context, tenant string, page, pageSize int) ([]*assistant.Summary, error) {
	return s.repo.Paginate(ctx, tenant, page, pageSize)
}

// LatestSummary returns the most recent summary for a record.
func (s *Service) LatestSummary(ctx context.Context, tenant, recordID string) (*assistant.Summary, error) {
	return s.repo.LatestByRecord(ctx, tenant, recordID)
}
