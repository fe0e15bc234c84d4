package waitlist

import (
	"context"
	"fmt"
	"time"

	"github.com/akeren/waitlist-foundry/internal/models"
	apperrors "github.com/akeren/waitlist-foundry/pkg/errors"
)

// SheetsClient is the subset of *sheets.Client the repository needs.
type SheetsClient interface {
	AppendRow(ctx context.Context, row []any) error
	ReadRows(ctx context.Context, width int) ([][]string, error)
	Ping(ctx context.Context) error
}

const sheetColumns = 4

type sheetsRepository struct {
	client SheetsClient
}

// NewSheetsRepository keeps entries as rows of a spreadsheet range, four columns each:
// timestamp, email, user agent, source.
func NewSheetsRepository(client SheetsClient) WaitlistRepository {
	return &sheetsRepository{client: client}
}

func (r *sheetsRepository) AppendEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	if entry == nil {
		return apperrors.NewInvalidRequestError("entry cannot be nil", nil)
	}

	if err := r.client.AppendRow(ctx, entry.Row()); err != nil {
		return apperrors.NewStoreUnavailableError("unable to append waitlist entry", fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
	}
	return nil
}

func (r *sheetsRepository) ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error) {
	rows, err := r.client.ReadRows(ctx, sheetColumns)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("unable to fetch waitlist entries", fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
	}

	entries := make([]*models.WaitlistEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, &models.WaitlistEntry{
			ID:        uint(i + 1),
			Timestamp: parseSheetTimestamp(cell(row, 0)),
			Email:     cell(row, 1),
			UserAgent: cell(row, 2),
			Source:    cell(row, 3),
		})
	}
	return entries, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// parseSheetTimestamp returns the zero time for cells that were edited by hand into
// something other than RFC 3339.
func parseSheetTimestamp(cell string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, cell)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

func (r *sheetsRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *sheetsRepository) Backend() string {
	return "sheets"
}
