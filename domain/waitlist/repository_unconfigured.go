package waitlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/akeren/waitlist-foundry/internal/models"
	apperrors "github.com/akeren/waitlist-foundry/pkg/errors"
)

type unconfiguredRepository struct {
	backend string
	missing []string
}

// NewUnconfiguredRepository stands in for a store whose settings are absent so the
// process still starts. Every call fails with ErrStoreUnavailable.
func NewUnconfiguredRepository(backend string, missing ...string) WaitlistRepository {
	return &unconfiguredRepository{backend: backend, missing: missing}
}

func (r *unconfiguredRepository) err() error {
	cause := fmt.Errorf("%w: %s store not configured (missing %s)", ErrStoreUnavailable, r.backend, strings.Join(r.missing, ", "))
	return apperrors.NewStoreUnavailableError("waitlist store is not configured", cause)
}

func (r *unconfiguredRepository) AppendEntry(context.Context, *models.WaitlistEntry) error {
	return r.err()
}

func (r *unconfiguredRepository) ListEntries(context.Context) ([]*models.WaitlistEntry, error) {
	return nil, r.err()
}

func (r *unconfiguredRepository) Ping(context.Context) error {
	return r.err()
}

func (r *unconfiguredRepository) Backend() string {
	return r.backend
}
