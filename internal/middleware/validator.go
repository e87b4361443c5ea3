package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidateRecordType checks the record type against the allowed set
func ValidateRecordType(t string) error {
	allowed := map[string]bool{
		"injury":       true,
		"medical_exam": true,
		"vaccination":  true,
		"treatment":    true,
		"prescription": true,
		"other":        true,
	}

	if !allowed[strings.ToLower(t)] {
		return fmt.Errorf("invalid record type: %s (allowed: injury, medical_exam, vaccination, treatment, prescription, other)", t)
	}
	return nil
}

// ValidateSeverity checks a diagnosis severity value
func ValidateSeverity(s string) error {
	if s == "" {
		return nil // Optional field
	}
	switch strings.ToLower(s) {
	case "mild", "moderate", "severe":
		return nil
	}
	return fmt.Errorf("invalid severity: %s (allowed: mild, moderate, severe)", s)
}

// ValidateVerificationStatus checks a verification outcome
func ValidateVerificationStatus(s string) error {
	switch strings.ToLower(s) {
	case "verified", "rejected":
		return nil
	}
	return fmt.Errorf("invalid verification status: %s (allowed: verified, rejected)", s)
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateRecordID validates record ID format (uuid)
func ValidateRecordID(id string) error {
	if id == "" {
		return fmt.Errorf("record ID cannot be empty")
	}

	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`
	matched, _ := regexp.MatchString(pattern, strings.ToLower(id))
	if !matched {
		return fmt.Errorf("invalid record ID format")
	}

	return nil
}

// ValidateAccessLogSize rejects access histories beyond the configured cap.
// The cap lives at the boundary; the scoring engine never truncates.
func ValidateAccessLogSize(n, max int) error {
	if max > 0 && n > max {
		return fmt.Errorf("access log too large: %d entries (max %d)", n, max)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
