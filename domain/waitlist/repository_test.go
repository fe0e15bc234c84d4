package waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akeren/waitlist-foundry/internal/models"
	apperrors "github.com/akeren/waitlist-foundry/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.ModelRegistry...))
	return db
}

func TestGormRepository_AppendOnlyAllowsDuplicates(t *testing.T) {
	repo := NewGormRepository(newSQLiteDB(t), "sqlite")
	ctx := context.Background()

	first := testEntry()
	second := testEntry()
	second.Timestamp = second.Timestamp.Add(time.Second)

	require.NoError(t, repo.AppendEntry(ctx, first))
	require.NoError(t, repo.AppendEntry(ctx, second))

	entries, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "jane@example.com", entries[0].Email)
	assert.Equal(t, "jane@example.com", entries[1].Email)
	assert.True(t, entries[0].ID < entries[1].ID)
	assert.Equal(t, "2024-05-01T10:00:01.000Z", entries[1].FormattedTimestamp())

	assert.NoError(t, repo.Ping(ctx))
	assert.Equal(t, "sqlite", repo.Backend())
}

func TestGormRepository_AppendNil(t *testing.T) {
	repo := NewGormRepository(newSQLiteDB(t), "sqlite")

	err := repo.AppendEntry(context.Background(), nil)
	assert.Equal(t, 400, apperrors.HTTPStatusCode(err))
}

type fakeSheetsClient struct {
	rows      [][]string
	appended  [][]any
	appendErr error
	readErr   error
}

func (f *fakeSheetsClient) AppendRow(_ context.Context, row []any) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, row)
	return nil
}

func (f *fakeSheetsClient) ReadRows(context.Context, int) ([][]string, error) {
	return f.rows, f.readErr
}

func (f *fakeSheetsClient) Ping(context.Context) error {
	return f.readErr
}

func TestSheetsRepository_AppendWritesExactlyOneRow(t *testing.T) {
	client := &fakeSheetsClient{}
	repo := NewSheetsRepository(client)

	require.NoError(t, repo.AppendEntry(context.Background(), testEntry()))

	require.Len(t, client.appended, 1)
	assert.Equal(t, []any{"2024-05-01T10:00:00.000Z", "jane@example.com", "Firefox", "hero_button"}, client.appended[0])
}

func TestSheetsRepository_AppendFailureIsStoreUnavailable(t *testing.T) {
	repo := NewSheetsRepository(&fakeSheetsClient{appendErr: errors.New("403 forbidden")})

	err := repo.AppendEntry(context.Background(), testEntry())

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 500, apperrors.HTTPStatusCode(err))
	assert.NotContains(t, apperrors.GetHumanReadableMessage(err), "403")
}

func TestSheetsRepository_ListMapsColumnsPositionally(t *testing.T) {
	client := &fakeSheetsClient{rows: [][]string{
		{"2024-05-01T10:00:00.000Z", "jane@example.com", "Firefox", "hero_button"},
		{"yesterday", "bob@example.com"},
	}}
	repo := NewSheetsRepository(client)

	entries, err := repo.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "2024-05-01T10:00:00.000Z", entries[0].FormattedTimestamp())
	assert.Equal(t, "hero_button", entries[0].Source)
	assert.Equal(t, "", entries[1].FormattedTimestamp())
	assert.Equal(t, "bob@example.com", entries[1].Email)
	assert.Equal(t, "", entries[1].Source)
	assert.Equal(t, "sheets", repo.Backend())
}

func TestSheetsRepository_ReadFailure(t *testing.T) {
	repo := NewSheetsRepository(&fakeSheetsClient{readErr: errors.New("timeout")})

	_, err := repo.ListEntries(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, repo.Ping(context.Background()), ErrStoreUnavailable)
}

func TestUnconfiguredRepository(t *testing.T) {
	repo := NewUnconfiguredRepository("sheets", "GOOGLE_SHEETS_CLIENT_EMAIL", "GOOGLE_SHEETS_PRIVATE_KEY")
	ctx := context.Background()

	err := repo.AppendEntry(ctx, testEntry())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "GOOGLE_SHEETS_CLIENT_EMAIL")
	assert.Equal(t, "waitlist store is not configured", apperrors.GetHumanReadableMessage(err))

	_, err = repo.ListEntries(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, repo.Ping(ctx), ErrStoreUnavailable)
}
