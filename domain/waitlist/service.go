package waitlist

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/internal/models"
	"github.com/akeren/waitlist-foundry/pkg/clock"
	"github.com/akeren/waitlist-foundry/pkg/constants"
	apperrors "github.com/akeren/waitlist-foundry/pkg/errors"
	"github.com/akeren/waitlist-foundry/pkg/utils"
	"golang.org/x/text/cases"
)

type WaitlistService interface {
	// Submit runs one submission through rate limit, honeypot, validation, attribution
	// and append, then hands the stored entry to the notifier. A nil error means the
	// caller sees success, which includes the silent honeypot path.
	Submit(ctx context.Context, req *SubmissionRequest) error

	// ListEntries returns stored entries newest first. A non-empty filter keeps entries
	// whose timestamp, email, source or user agent contains it, ignoring case.
	ListEntries(ctx context.Context, filter string) ([]*models.WaitlistEntry, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	abuse      *AbuseFilter
	notifier   Notifier
	metrics    *Metrics
	clock      clock.Clock
}

func NewWaitlistService(
	logger *log.Logger,
	repository WaitlistRepository,
	abuse *AbuseFilter,
	notifier Notifier,
	metrics *Metrics,
	clk clock.Clock,
) WaitlistService {
	if clk == nil {
		clk = clock.System{}
	}
	return &waitlistService{
		logger:     logger,
		repository: repository,
		abuse:      abuse,
		notifier:   notifier,
		metrics:    metrics,
		clock:      clk,
	}
}

func (s *waitlistService) Submit(ctx context.Context, req *SubmissionRequest) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		req = &SubmissionRequest{}
	}

	clientKey := ClientKey(req.ForwardedFor)
	if err := s.abuse.CheckRate(ctx, clientKey); err != nil {
		if errors.Is(err, ErrRateLimited) {
			s.metrics.Submission(OutcomeRateLimited)
			return apperrors.NewRateLimitExceededError(MessageTooManyRequests, err)
		}
		s.metrics.Submission(OutcomeLimiterUnavailable)
		return apperrors.NewServiceUnavailableError(MessageUnavailable, err)
	}

	if HoneypotTripped(req.Honeypot) {
		logger.Info("Honeypot field filled; accepting submission without storing it", "client", clientKey)
		s.metrics.Submission(OutcomeHoneypot)
		return nil
	}

	email, err := ValidateEmail(req.Email)
	if err != nil {
		var validationErr *ValidationError
		errors.As(err, &validationErr)
		if validationErr.Reason == ReasonMissing {
			s.metrics.Submission(OutcomeMissing)
		} else {
			s.metrics.Submission(OutcomeMalformed)
		}
		logger.Info("Waitlist submission rejected", "reason", string(validationErr.Reason))
		return apperrors.NewInvalidRequestError(validationErr.UserMessage(), err)
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = constants.UnknownUserAgent
	}

	entry := &models.WaitlistEntry{
		Timestamp: s.clock.Now().UTC().Truncate(time.Millisecond),
		Email:     email,
		UserAgent: userAgent,
		Source:    AttributeSource(req.Source, req.Referrer),
	}

	if err := s.repository.AppendEntry(ctx, entry); err != nil {
		logger.Error("Failed to append waitlist entry", "backend", s.repository.Backend(), "error", err)
		s.metrics.Submission(OutcomeStoreError)
		return apperrors.NewStoreUnavailableError(MessageSomethingWentWrong, err)
	}

	s.metrics.Submission(OutcomeAccepted)
	logger.Info("Waitlist entry stored",
		"email", utils.MaskEmail(email),
		"source", entry.Source,
		"backend", s.repository.Backend(),
	)

	s.notifier.NotifySignup(ctx, entry)

	return nil
}

func (s *waitlistService) ListEntries(ctx context.Context, filter string) ([]*models.WaitlistEntry, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, err := s.repository.ListEntries(ctx)
	if err != nil {
		logger.Error("Failed to list waitlist entries", "backend", s.repository.Backend(), "error", err)
		return nil, apperrors.NewStoreUnavailableError("Unable to load waitlist entries", err)
	}

	newestFirst := slices.Clone(entries)
	slices.Reverse(newestFirst)

	needle := strings.TrimSpace(filter)
	if needle == "" {
		return newestFirst, nil
	}

	fold := cases.Fold()
	needle = fold.String(needle)

	matched := make([]*models.WaitlistEntry, 0, len(newestFirst))
	for _, entry := range newestFirst {
		if entryMatches(fold, entry, needle) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func entryMatches(fold cases.Caser, entry *models.WaitlistEntry, needle string) bool {
	for _, field := range []string{entry.FormattedTimestamp(), entry.Email, entry.Source, entry.UserAgent} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}
