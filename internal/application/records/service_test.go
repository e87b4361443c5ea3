package records

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/medtrust/internal/application"
	domain "github.com/bryanwahyu/medtrust/internal/domain/records"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeRepo is an in-memory Repository recording the call order so tests can
// assert on sequencing, not just end state.
type fakeRepo struct {
	rec      *domain.HealthRecord
	saved    []*domain.HealthRecord
	appended []domain.AccessEntry
	analysis *domain.AnalysisResult
	status   domain.VerificationStatus
	archived bool
	calls    []string
}

func (f *fakeRepo) Save(_ context.Context, rec *domain.HealthRecord) error {
	f.calls = append(f.calls, "save")
	f.saved = append(f.saved, rec)
	f.rec = rec
	return nil
}

func (f *fakeRepo) Get(_ context.Context, _ string, _ domain.RecordID) (*domain.HealthRecord, error) {
	f.calls = append(f.calls, "get")
	if f.rec == nil {
		return nil, domain.ErrNotFound
	}
	cp := *f.rec
	cp.AccessLog = append([]domain.AccessEntry(nil), f.rec.AccessLog...)
	return &cp, nil
}

func (f *fakeRepo) Latest(_ context.Context, _ string, _ int) ([]*domain.HealthRecord, error) {
	return []*domain.HealthRecord{f.rec}, nil
}

func (f *fakeRepo) Paginate(_ context.Context, _ string, _, _ int, _ map[string]interface{}) (domain.PaginatedResult, error) {
	return domain.PaginatedResult{}, nil
}

func (f *fakeRepo) Count(_ context.Context, _ string, _ map[string]interface{}) (int64, error) {
	return 1, nil
}

func (f *fakeRepo) Stats(_ context.Context, _ string, _ int) (domain.Stats, error) {
	return domain.Stats{Total: 1}, nil
}

func (f *fakeRepo) AppendAccess(_ context.Context, _ string, _ domain.RecordID, e domain.AccessEntry) error {
	f.calls = append(f.calls, "append")
	f.appended = append(f.appended, e)
	if f.rec != nil {
		f.rec.AccessLog = append(f.rec.AccessLog, e)
	}
	return nil
}

func (f *fakeRepo) UpdateAnalysis(_ context.Context, _ string, _ domain.RecordID, a domain.AnalysisResult) error {
	f.calls = append(f.calls, "analysis")
	f.analysis = &a
	return nil
}

func (f *fakeRepo) UpdateVerification(_ context.Context, _ string, _ domain.RecordID, status domain.VerificationStatus, _ string, _ time.Time) error {
	f.calls = append(f.calls, "verification")
	f.status = status
	return nil
}

func (f *fakeRepo) Archive(_ context.Context, _ string, _ domain.RecordID) error {
	f.calls = append(f.calls, "archive")
	f.archived = true
	return nil
}

type fakeStore struct {
	uploads []string
}

func (f *fakeStore) Upload(_ context.Context, _, key string) (string, error) {
	f.uploads = append(f.uploads, key)
	return "https://store.local/" + key, nil
}

func (f *fakeStore) UploadAndCleanup(ctx context.Context, localPath, key string) (string, error) {
	return f.Upload(ctx, localPath, key)
}

func newService(repo *fakeRepo, store *fakeStore) *Service {
	return &Service{
		Repo:        repo,
		Attachments: store,
		Clock:       application.FixedClock{T: fixedNow},
	}
}

func storedRecord() *domain.HealthRecord {
	return &domain.HealthRecord{
		ID:                 "8f14e45f-ceea-4167-8a5a-763ef4d11a2b",
		TenantID:           "club-a",
		AthleteID:          "ath-1",
		Type:               domain.TypeInjury,
		Title:              "Ankle sprain",
		Date:               fixedNow.AddDate(0, 0, -7),
		Provider:           &domain.Provider{Name: "Dr. X", Institution: "City Hospital"},
		Diagnosis:          &domain.Diagnosis{Condition: "Sprain", Severity: domain.SeverityMild},
		Treatment:          &domain.Treatment{Plan: "Rest", Recommendations: []string{"Ice pack"}},
		VerificationStatus: domain.VerificationPending,
		CreatedAt:          fixedNow.AddDate(0, 0, -7),
		UpdatedAt:          fixedNow.AddDate(0, 0, -6),
	}
}

func TestCreateSetsDefaults(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, &fakeStore{})

	rec, err := svc.Create(context.Background(), CreateRecordCommand{
		TenantID:  "club-a",
		AthleteID: "ath-1",
		Type:      "injury",
		Title:     "Ankle sprain",
		Date:      fixedNow.AddDate(0, 0, -1),
	})
	require.NoError(t, err)

	_, err = uuid.Parse(string(rec.ID))
	assert.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, rec.VerificationStatus)
	assert.Equal(t, fixedNow, rec.CreatedAt)
	assert.Equal(t, fixedNow, rec.UpdatedAt)
	require.Len(t, repo.saved, 1)
}

func TestGetLogsView(t *testing.T) {
	repo := &fakeRepo{rec: storedRecord()}
	svc := newService(repo, &fakeStore{})

	rec, err := svc.Get(context.Background(), "club-a", repo.rec.ID, Actor{User: "coach", IPAddress: "10.0.0.9"})
	require.NoError(t, err)
	assert.Equal(t, "Ankle sprain", rec.Title)

	require.Len(t, repo.appended, 1)
	assert.Equal(t, domain.ActionView, repo.appended[0].Action)
	assert.Equal(t, "coach", repo.appended[0].User)
	assert.Equal(t, "10.0.0.9", repo.appended[0].IPAddress)
	assert.Equal(t, fixedNow, repo.appended[0].Timestamp)
}

func TestGetNotFound(t *testing.T) {
	svc := newService(&fakeRepo{}, &fakeStore{})
	_, err := svc.Get(context.Background(), "club-a", "missing", Actor{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	repo := &fakeRepo{rec: storedRecord()}
	svc := newService(repo, &fakeStore{})

	rec, err := svc.Update(context.Background(), "club-a", repo.rec.ID, UpdateRecordCommand{
		Title:     "Ankle sprain (grade II)",
		Diagnosis: &domain.Diagnosis{Condition: "Sprain", Severity: domain.SeverityModerate},
	}, Actor{User: "medic"})
	require.NoError(t, err)

	assert.Equal(t, "Ankle sprain (grade II)", rec.Title)
	assert.Equal(t, domain.SeverityModerate, rec.Diagnosis.Severity)
	// untouched fields survive the merge
	assert.Equal(t, "Rest", rec.Treatment.Plan)
	assert.Equal(t, "Dr. X", rec.Provider.Name)
	assert.Equal(t, fixedNow, rec.UpdatedAt)

	require.Len(t, repo.appended, 1)
	assert.Equal(t, domain.ActionUpdate, repo.appended[0].Action)
}

func TestVerifyRejectsInvalidStatus(t *testing.T) {
	repo := &fakeRepo{rec: storedRecord()}
	svc := newService(repo, &fakeStore{})

	err := svc.Verify(context.Background(), "club-a", repo.rec.ID, "maybe", Actor{User: "medic"})
	require.Error(t, err)
	assert.Empty(t, repo.calls)
}

func TestVerifySetsStatusAndLogs(t *testing.T) {
	repo := &fakeRepo{rec: storedRecord()}
	svc := newService(repo, &fakeStore{})

	err := svc.Verify(context.Background(), "club-a", repo.rec.ID, domain.VerificationVerified, Actor{User: "medic"})
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationVerified, repo.status)
	require.Len(t, repo.appended, 1)
	assert.Equal(t, domain.ActionVerify, repo.appended[0].Action)
}

func TestArchiveLogsDeletion(t *testing.T) {
	repo := &fakeRepo{rec: storedRecord()}
	svc := newService(repo, &fakeStore{})

	require.NoError(t, svc.Archive(context.Background(), "club-a", repo.rec.ID, Actor{User: "admin"}))
	assert.True(t, repo.archived)
	require.Len(t, repo.appended, 1)
	assert.Equal(t, domain.ActionDelete, repo.appended[0].Action)
}

func TestAnalyzePersistsResultThenLogs(t *testing.T) {
	repo := &fakeRepo{rec: storedRecord()}
	svc := newService(repo, &fakeStore{})

	res, err := svc.Analyze(context.Background(), "club-a", repo.rec.ID, Actor{User: "medic", IPAddress: "10.0.0.9"})
	require.NoError(t, err)

	assert.Equal(t, 100, res.Authenticity.Score)
	assert.Equal(t, fixedNow, res.AnalyzedAt)
	require.NotNil(t, repo.analysis)
	assert.Equal(t, res, *repo.analysis)

	// the analyze entry is written after the result, so the run that produced
	// the result never saw it
	assert.Equal(t, []string{"get", "analysis", "append"}, repo.calls)
	require.Len(t, repo.appended, 1)
	assert.Equal(t, domain.ActionAnalyze, repo.appended[0].Action)
}

func TestAnalyzeEntryNotSeenByOwnRun(t *testing.T) {
	rec := storedRecord()
	t0 := fixedNow.Add(-time.Hour)
	// two rapid views already on the log: suspicion 1, metadata 90
	rec.AccessLog = []domain.AccessEntry{
		{User: "coach", Action: domain.ActionView, Timestamp: t0, IPAddress: "10.0.0.1"},
		{User: "coach", Action: domain.ActionView, Timestamp: t0.Add(10 * time.Second), IPAddress: "10.0.0.1"},
	}
	repo := &fakeRepo{rec: rec}
	svc := newService(repo, &fakeStore{})

	res, err := svc.Analyze(context.Background(), "club-a", rec.ID, Actor{User: "medic"})
	require.NoError(t, err)
	assert.Equal(t, 96, res.Authenticity.Score)

	// the log now has three entries, but the persisted result reflects two
	assert.Len(t, repo.rec.AccessLog, 3)
	assert.Equal(t, 96, repo.analysis.Authenticity.Score)
}

func TestAnalyzeRejectsOversizedAccessLog(t *testing.T) {
	rec := storedRecord()
	for i := 0; i < 3; i++ {
		rec.AccessLog = append(rec.AccessLog, domain.AccessEntry{
			User: "coach", Action: domain.ActionView, Timestamp: fixedNow.Add(time.Duration(i) * time.Hour),
		})
	}
	repo := &fakeRepo{rec: rec}
	svc := newService(repo, &fakeStore{})
	svc.MaxAccessLog = 2

	_, err := svc.Analyze(context.Background(), "club-a", rec.ID, Actor{User: "medic"})
	require.ErrorIs(t, err, ErrAccessLogTooLarge)
	assert.Nil(t, repo.analysis)
	assert.Empty(t, repo.appended)
}

func TestAnalyzeAcceptsLogAtCap(t *testing.T) {
	rec := storedRecord()
	for i := 0; i < 2; i++ {
		rec.AccessLog = append(rec.AccessLog, domain.AccessEntry{
			User: "coach", Action: domain.ActionView, Timestamp: fixedNow.Add(time.Duration(i) * time.Hour),
		})
	}
	repo := &fakeRepo{rec: rec}
	svc := newService(repo, &fakeStore{})
	svc.MaxAccessLog = 2

	_, err := svc.Analyze(context.Background(), "club-a", rec.ID, Actor{User: "medic"})
	require.NoError(t, err)
}

func TestAttachFileUploadsAndLogs(t *testing.T) {
	repo := &fakeRepo{rec: storedRecord()}
	store := &fakeStore{}
	svc := newService(repo, store)

	rec, err := svc.AttachFile(context.Background(), "club-a", repo.rec.ID, "/tmp/scan.pdf", "scan.pdf", "application/pdf", Actor{User: "medic"})
	require.NoError(t, err)

	require.Len(t, rec.Attachments, 1)
	assert.Equal(t, "scan.pdf", rec.Attachments[0].FileName)
	assert.Equal(t, "https://store.local/club-a/"+string(rec.ID)+"/scan.pdf", rec.Attachments[0].FileURL)
	assert.Equal(t, fixedNow, rec.Attachments[0].UploadDate)

	require.Len(t, store.uploads, 1)
	require.Len(t, repo.appended, 1)
	assert.Equal(t, domain.ActionUpdate, repo.appended[0].Action)
}
