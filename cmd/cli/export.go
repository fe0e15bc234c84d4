package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/akeren/waitlist-foundry/config"
	"github.com/akeren/waitlist-foundry/domain"
	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/internal/models"
)

var csvHeader = []string{"timestamp", "email", "user_agent", "source"}

func runExport(ctx context.Context, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("out", "-", "destination: '-' for stdout, a file path, or gs://bucket/object")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store := config.OpenWaitlistStore(ctx, logger, config.NewStoreConfig(), false)
	if store.DB != nil {
		defer config.CloseDatabase(store.DB, logger)
	}

	entries, err := domain.NewWaitlistRepository(store).ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	dest, err := openDestination(ctx, *out)
	if err != nil {
		return err
	}

	if err := writeCSV(dest, entries); err != nil {
		_ = dest.Close()
		return err
	}
	if err := dest.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", *out, err)
	}

	logger.Info("Waitlist exported", "entries", len(entries), "destination", *out)
	return nil
}

// writeCSV emits entries in store order under a fixed header.
func writeCSV(w io.Writer, entries []*models.WaitlistEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, entry := range entries {
		row := []string{entry.FormattedTimestamp(), safeCell(entry.Email), safeCell(entry.UserAgent), safeCell(entry.Source)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// safeCell stops spreadsheet apps from evaluating submitted text as a formula.
func safeCell(value string) string {
	if value != "" && strings.ContainsRune("=+-@\t\r", rune(value[0])) {
		return "'" + value
	}
	return value
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// gcsWriter closes the object writer first, which commits the upload, then the client.
type gcsWriter struct {
	*storage.Writer
	client *storage.Client
}

func (w *gcsWriter) Close() error {
	err := w.Writer.Close()
	if cerr := w.client.Close(); err == nil {
		err = cerr
	}
	return err
}

func openDestination(ctx context.Context, out string) (io.WriteCloser, error) {
	switch {
	case out == "" || out == "-":
		return nopCloser{os.Stdout}, nil

	case strings.HasPrefix(out, "gs://"):
		bucket, object, err := parseGCSPath(out)
		if err != nil {
			return nil, err
		}
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		w := client.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = "text/csv"
		return &gcsWriter{Writer: w, client: client}, nil

	default:
		f, err := os.Create(out)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", out, err)
		}
		return f, nil
	}
}

func parseGCSPath(raw string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(raw, "gs://")
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid gcs destination %q, want gs://bucket/object", raw)
	}
	return bucket, object, nil
}
