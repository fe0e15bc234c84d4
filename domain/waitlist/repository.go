package waitlist

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

import (
	"context"
	"fmt"

	"github.com/akeren/waitlist-foundry/internal/models"
	apperrors "github.com/akeren/waitlist-foundry/pkg/errors"
	"gorm.io/gorm"
)

// WaitlistRepository is an append-only log of signups. Implementations must serialize
// concurrent appends themselves; each AppendEntry writes exactly one row.
type WaitlistRepository interface {
	// AppendEntry durably writes entry as one row.
	AppendEntry(ctx context.Context, entry *models.WaitlistEntry) error
	// ListEntries returns every entry in store order, oldest first.
	ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error)
	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
	// Backend names the implementation for logs and health output.
	Backend() string
}

type gormRepository struct {
	db      *gorm.DB
	backend string
}

// NewGormRepository stores entries in the waitlist_entries table. backend is "postgres"
// or "sqlite" and is only used for reporting.
func NewGormRepository(db *gorm.DB, backend string) WaitlistRepository {
	return &gormRepository{db: db, backend: backend}
}

func (r *gormRepository) AppendEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	if entry == nil {
		return apperrors.NewInvalidRequestError("entry cannot be nil", nil)
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return apperrors.NewStoreUnavailableError("unable to append waitlist entry", fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
	}

	return nil
}

func (r *gormRepository) ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error) {
	var entries []*models.WaitlistEntry

	if err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.NewStoreUnavailableError("unable to fetch waitlist entries", fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
	}

	return entries, nil
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *gormRepository) Backend() string {
	return r.backend
}
