package waitlist

import (
	"encoding/json"

	"github.com/akeren/waitlist-foundry/internal/models"
)

// SubmissionRequest keeps the decoded JSON values untyped: a number where a string
// belongs is a validation outcome, not a decoding failure.
type SubmissionRequest struct {
	Email     any
	Source    any
	Honeypot  any
	UserAgent string
	Referrer  string
	// ForwardedFor is the raw X-Forwarded-For header.
	ForwardedFor string
}

// DecodeSubmission extracts email, source and hp from body. A body that is not a JSON
// object yields an empty submission.
func DecodeSubmission(body []byte) SubmissionRequest {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return SubmissionRequest{}
	}

	return SubmissionRequest{
		Email:    fields["email"],
		Source:   fields["source"],
		Honeypot: fields["hp"],
	}
}

type SubmissionResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// EntryResponse is the JSON shape of one stored entry.
type EntryResponse struct {
	Timestamp string `json:"timestamp"`
	Email     string `json:"email"`
	UserAgent string `json:"userAgent"`
	Source    string `json:"source"`
}

func ToEntryResponse(entry *models.WaitlistEntry) EntryResponse {
	if entry == nil {
		return EntryResponse{}
	}
	return EntryResponse{
		Timestamp: entry.FormattedTimestamp(),
		Email:     entry.Email,
		UserAgent: entry.UserAgent,
		Source:    entry.Source,
	}
}
