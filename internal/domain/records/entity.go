package records

import (
	"time"
)

// ID tipe untuk HealthRecord
type RecordID string

// RecordType enum
type RecordType string

const (
	TypeInjury       RecordType = "injury"
	TypeMedicalExam  RecordType = "medical_exam"
	TypeVaccination  RecordType = "vaccination"
	TypeTreatment    RecordType = "treatment"
	TypePrescription RecordType = "prescription"
	TypeOther        RecordType = "other"
)

// Severity enum for a diagnosis
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Action enum for access log entries
type Action string

const (
	ActionView    Action = "view"
	ActionUpdate  Action = "update"
	ActionVerify  Action = "verify"
	ActionDelete  Action = "delete"
	ActionAnalyze Action = "analyze"
)

// VerificationStatus enum
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Provider value object. All fields optional; a missing name or
// institution is a trust signal, not an error.
type Provider struct {
	Name           string `json:"name,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Institution    string `json:"institution,omitempty"`
	ContactInfo    string `json:"contact_info,omitempty"`
}

// Diagnosis value object
type Diagnosis struct {
	Condition string   `json:"condition,omitempty"`
	Severity  Severity `json:"severity,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// Medication value object
type Medication struct {
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage,omitempty"`
	Frequency string     `json:"frequency,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Treatment value object
type Treatment struct {
	Plan            string       `json:"plan,omitempty"`
	Duration        string       `json:"duration,omitempty"`
	Medications     []Medication `json:"medications,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`
}

// FollowUp value object
type FollowUp struct {
	Required bool       `json:"required"`
	Date     *time.Time `json:"date,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// Attachment metadata for an uploaded document
type Attachment struct {
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type,omitempty"`
	FileURL    string    `json:"file_url"`
	UploadDate time.Time `json:"upload_date"`
}

// AccessEntry is one append-only entry in the record's access history.
// Entries are ordered by insertion, not necessarily by timestamp.
type AccessEntry struct {
	User      string    `json:"user"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address,omitempty"`
}

// Authenticity is the scored outcome of an analysis run.
type Authenticity struct {
	Score int      `json:"score"`
	Flags []string `json:"flags"`
}

// AnalysisResult is produced fresh per analysis call and persisted
// onto the record by the store layer.
type AnalysisResult struct {
	Authenticity    Authenticity `json:"authenticity"`
	Recommendations []string     `json:"recommendations"`
	AnalyzedAt      time.Time    `json:"analyzed_at"`
}

// Aggregate Root: HealthRecord
type HealthRecord struct {
	ID                 RecordID           `json:"id"`
	TenantID           string             `json:"tenant_id"`
	AthleteID          string             `json:"athlete_id"`
	Type               RecordType         `json:"record_type"`
	Title              string             `json:"title"`
	Description        string             `json:"description,omitempty"`
	Date               time.Time          `json:"date"`
	Provider           *Provider          `json:"provider,omitempty"`
	Diagnosis          *Diagnosis         `json:"diagnosis,omitempty"`
	Treatment          *Treatment         `json:"treatment,omitempty"`
	FollowUp           *FollowUp          `json:"follow_up,omitempty"`
	Attachments        []Attachment       `json:"attachments,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	VerifiedBy         string             `json:"verified_by,omitempty"`
	VerificationDate   *time.Time         `json:"verification_date,omitempty"`
	Analysis           *AnalysisResult    `json:"analysis,omitempty"`
	AccessLog          []AccessEntry      `json:"access_log,omitempty"`
	Archived           bool               `json:"archived"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
