package config

import (
	"context"
	"strings"

	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/pkg/constants"
	"github.com/akeren/waitlist-foundry/pkg/sheets"
	"github.com/akeren/waitlist-foundry/pkg/utils"
	"gorm.io/gorm"
)

const (
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type StoreConfig struct {
	Backend    string
	SQLitePath string
	Sheets     sheets.Config
}

func NewStoreConfig() *StoreConfig {
	return &StoreConfig{
		Backend:    strings.ToLower(utils.GetEnvTrimmedOrDefault("WAITLIST_STORE", StoreSheets)),
		SQLitePath: utils.GetEnvTrimmedOrDefault("SQLITE_PATH", "waitlist.db"),
		Sheets: sheets.Config{
			ClientEmail:   sanitizeEnv(utils.GetEnvTrimmed("GOOGLE_SHEETS_CLIENT_EMAIL")),
			PrivateKey:    sheets.NormalizePrivateKey(sanitizeEnv(utils.GetEnvTrimmed("GOOGLE_SHEETS_PRIVATE_KEY"))),
			SpreadsheetID: sanitizeEnv(utils.GetEnvTrimmed("GOOGLE_SHEETS_SPREADSHEET_ID")),
			Range:         utils.GetEnvTrimmedOrDefault("GOOGLE_SHEETS_RANGE", constants.DefaultSheetsRange),
		},
	}
}

// MissingSheetsSettings names the unset credentials, in a stable order.
func (sc *StoreConfig) MissingSheetsSettings() []string {
	var missing []string
	if strings.TrimSpace(sc.Sheets.ClientEmail) == "" {
		missing = append(missing, "GOOGLE_SHEETS_CLIENT_EMAIL")
	}
	if strings.TrimSpace(sc.Sheets.PrivateKey) == "" {
		missing = append(missing, "GOOGLE_SHEETS_PRIVATE_KEY")
	}
	if strings.TrimSpace(sc.Sheets.SpreadsheetID) == "" {
		missing = append(missing, "GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	return missing
}

// WaitlistStore is the opened backing store. Exactly one of DB and Sheets is set when
// the store is usable; otherwise Missing explains why it is not.
type WaitlistStore struct {
	Backend string
	DB      *gorm.DB
	Sheets  *sheets.Client
	Missing []string
}

func (ws *WaitlistStore) Usable() bool {
	return ws.DB != nil || ws.Sheets != nil
}

// OpenWaitlistStore never fails the process: a store that cannot be opened comes back
// unusable and every request that needs it fails instead.
func OpenWaitlistStore(ctx context.Context, logger *log.Logger, sc *StoreConfig, autoMigrate bool, models ...interface{}) *WaitlistStore {
	store := &WaitlistStore{Backend: sc.Backend}

	switch sc.Backend {
	case StoreSheets:
		if missing := sc.MissingSheetsSettings(); len(missing) > 0 {
			logger.Error("Waitlist store (sheets) is not configured", "missing", strings.Join(missing, ", "))
			store.Missing = missing
			return store
		}
		client, err := sheets.NewClient(ctx, sc.Sheets)
		if err != nil {
			logger.Error("Failed to create Google Sheets client", "error", err)
			store.Missing = []string{"GOOGLE_SHEETS_PRIVATE_KEY"}
			return store
		}
		logger.Info("Waitlist store ready", "backend", StoreSheets, "range", sc.Sheets.Range)
		store.Sheets = client

	case StorePostgres, StoreSQLite:
		dbCfg := &DBConfig{Dialect: sc.Backend, SQLitePath: sc.SQLitePath}
		db, err := NewDatabase(logger, dbCfg)
		if err != nil {
			store.Missing = []string{databaseSettingFor(sc.Backend)}
			return store
		}
		if autoMigrate {
			if err := AutoMigrate(logger, db, models...); err != nil {
				CloseDatabase(db, logger)
				store.Missing = []string{"schema migration"}
				return store
			}
		}
		logger.Info("Waitlist store ready", "backend", sc.Backend)
		store.DB = db

	default:
		logger.Error("Unknown WAITLIST_STORE value", "value", sc.Backend, "allowed", []string{StoreSheets, StorePostgres, StoreSQLite})
		store.Missing = []string{"WAITLIST_STORE"}
	}

	return store
}

func databaseSettingFor(backend string) string {
	if backend == StoreSQLite {
		return "SQLITE_PATH"
	}
	return "APP_DATABASE_URL"
}
