package waitlist

import "regexp"

// One or more non-space, non-@ characters, an @, then a domain with at least one dot.
// The class also excludes \v, Unicode separators and BOM so it agrees with the
// browser-side check on what counts as whitespace.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidateEmail accepts the raw decoded JSON value. Absent, non-string and empty values
// are missing; anything the pattern rejects is malformed. The accepted value is
// returned untouched: no trimming, no case folding.
func ValidateEmail(value any) (string, error) {
	email, ok := value.(string)
	if !ok || email == "" {
		return "", &ValidationError{Reason: ReasonMissing}
	}

	if !emailPattern.MatchString(email) {
		return "", &ValidationError{Reason: ReasonMalformed}
	}

	return email, nil
}
