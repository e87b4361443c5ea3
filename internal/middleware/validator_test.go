package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRecordType(t *testing.T) {
	for _, v := range []string{"injury", "medical_exam", "vaccination", "treatment", "prescription", "other", "INJURY"} {
		assert.NoError(t, ValidateRecordType(v), v)
	}
	assert.Error(t, ValidateRecordType(""))
	assert.Error(t, ValidateRecordType("surgery"))
}

func TestValidateSeverity(t *testing.T) {
	assert.NoError(t, ValidateSeverity(""))
	assert.NoError(t, ValidateSeverity("mild"))
	assert.NoError(t, ValidateSeverity("Moderate"))
	assert.NoError(t, ValidateSeverity("severe"))
	assert.Error(t, ValidateSeverity("critical"))
}

func TestValidateVerificationStatus(t *testing.T) {
	assert.NoError(t, ValidateVerificationStatus("verified"))
	assert.NoError(t, ValidateVerificationStatus("rejected"))
	assert.Error(t, ValidateVerificationStatus("pending"))
	assert.Error(t, ValidateVerificationStatus(""))
}

func TestValidateTenantID(t *testing.T) {
	assert.NoError(t, ValidateTenantID("club-a"))
	assert.NoError(t, ValidateTenantID("Team_42"))
	assert.Error(t, ValidateTenantID(""))
	assert.Error(t, ValidateTenantID("club a"))
	assert.Error(t, ValidateTenantID("club/../b"))

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateTenantID(string(long)))
}

func TestValidateRecordID(t *testing.T) {
	assert.NoError(t, ValidateRecordID("8f14e45f-ceea-4167-8a5a-763ef4d11a2b"))
	assert.NoError(t, ValidateRecordID("8F14E45F-CEEA-4167-8A5A-763EF4D11A2B"))
	assert.Error(t, ValidateRecordID(""))
	assert.Error(t, ValidateRecordID("not-a-uuid"))
	assert.Error(t, ValidateRecordID("8f14e45fceea41678a5a763ef4d11a2b"))
}

func TestValidateAccessLogSize(t *testing.T) {
	assert.NoError(t, ValidateAccessLogSize(10, 100))
	assert.NoError(t, ValidateAccessLogSize(100, 100)) // cap itself is fine
	assert.Error(t, ValidateAccessLogSize(101, 100))
	assert.NoError(t, ValidateAccessLogSize(1000, 0)) // zero disables the check
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello\x00  "))
	assert.Equal(t, "line1\nline2", SanitizeString("line1\nline2"))
	assert.Equal(t, "ab", SanitizeString("a\x01\x02b"))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-3))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(500))
}

func TestValidateDays(t *testing.T) {
	assert.Equal(t, 7, ValidateDays(0))
	assert.Equal(t, 30, ValidateDays(30))
	assert.Equal(t, 365, ValidateDays(1000))
}
