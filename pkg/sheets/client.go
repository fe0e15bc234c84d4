// Package sheets is a thin client over the Google Sheets v4 values API, authenticated
// with a service account's client email and private key.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

var ErrNotConfigured = errors.New("sheets client is not configured")

type Config struct {
	ClientEmail   string
	PrivateKey    string
	SpreadsheetID string
	Range         string
	// Endpoint overrides the API base URL. Empty means the public Google endpoint.
	Endpoint string
	// HTTPClient bypasses service-account auth entirely when set.
	HTTPClient *http.Client
}

// Configured reports whether all three credentials are present.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.ClientEmail) != "" &&
		strings.TrimSpace(c.PrivateKey) != "" &&
		strings.TrimSpace(c.SpreadsheetID) != ""
}

// NormalizePrivateKey turns the literal two-character "\n" sequences that env files
// carry into real newlines so the PEM block parses.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

type Client struct {
	values        *gsheets.SpreadsheetsValuesService
	spreadsheetID string
	rng           string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.Configured() && cfg.HTTPClient == nil {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, ErrNotConfigured
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jwtCfg := &jwt.Config{
			Email:      cfg.ClientEmail,
			PrivateKey: []byte(NormalizePrivateKey(cfg.PrivateKey)),
			Scopes:     []string{gsheets.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		httpClient = jwtCfg.Client(ctx)
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	rng := cfg.Range
	if rng == "" {
		rng = "Sheet1!A:D"
	}

	return &Client{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		rng:           rng,
	}, nil
}

// AppendRow adds one row after the last row of the configured range. Values are stored
// RAW so timestamps and UTM strings come back exactly as written.
func (c *Client) AppendRow(ctx context.Context, row []any) error {
	body := &gsheets.ValueRange{Values: [][]any{row}}
	_, err := c.values.Append(c.spreadsheetID, c.rng, body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// ReadRows returns every row of the configured range, each cell rendered as a string.
// Short rows are padded to width.
func (c *Client) ReadRows(ctx context.Context, width int) ([][]string, error) {
	resp, err := c.values.Get(c.spreadsheetID, c.rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		n := width
		if len(raw) > n {
			n = len(raw)
		}
		row := make([]string, n)
		for i, cell := range raw {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Ping fetches a single cell to prove the credentials and spreadsheet id are valid.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.values.Get(c.spreadsheetID, "A1:A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ping spreadsheet: %w", err)
	}
	return nil
}
