// Package sheets exports report snapshots to a Google spreadsheet, one tab
// per user.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"wealthwatcher/internal/export"
)

const (
	// Sheet titles are limited to 100 characters.
	maxTitleLen = 100
	clearRange  = "A:Z"
)

var ErrMissingSpreadsheetID = errors.New("missing spreadsheet id")

// Config locates the spreadsheet and the service account used to write it.
// ServiceAccountJSON wins over ServiceAccountFile.
type Config struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ServiceAccountFile string
	Prefix             string
}

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	prefix        string
}

var _ export.Exporter = (*Exporter)(nil)

// New creates an exporter authenticated with service account credentials.
// When opts are given they replace the credential lookup entirely.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, ErrMissingSpreadsheetID
	}

	if len(opts) == 0 {
		creds, err := credentials(cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets exporter ready",
		"component", "export", "spreadsheet_id", cfg.SpreadsheetID)

	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		prefix:        strings.TrimSpace(cfg.Prefix),
	}, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		return []byte(cfg.ServiceAccountJSON), nil
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// Export clears the user's tab and rewrites every table of the snapshot.
func (e *Exporter) Export(ctx context.Context, snap export.Snapshot) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	tab := tabTitle(e.prefix, snap.UserID)
	if err := e.ensureTab(ctx, tab); err != nil {
		return err
	}

	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, quoteRange(tab, clearRange), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", tab, err)
	}

	values := buildValues(e.prefix, snap)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, quoteRange(tab, "A1"), vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", tab, err)
	}

	slog.InfoContext(ctx, "Exported report snapshot",
		"component", "export", "user_id", snap.UserID, "tab", tab, "rows", len(values))
	return nil
}

func (e *Exporter) ensureTab(ctx context.Context, tab string) error {
	ss, err := e.svc.Spreadsheets.Get(e.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: tab}},
	}}}
	if _, err := e.svc.Spreadsheets.BatchUpdate(e.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", tab, err)
	}
	slog.InfoContext(ctx, "Created sheet tab", "component", "export", "tab", tab)
	return nil
}

// buildValues stacks the snapshot tables, each headed by "<prefix> <title>"
// and separated by an empty row.
func buildValues(prefix string, snap export.Snapshot) [][]any {
	var out [][]any
	out = append(out, []any{"Generated", snap.GeneratedAt.UTC().Format(time.RFC3339)})
	for _, t := range snap.Tables() {
		out = append(out, []any{})
		out = append(out, []any{strings.TrimSpace(prefix + " " + t.Title)})
		out = append(out, toRow(t.Headers))
		for _, r := range t.Rows {
			out = append(out, toRow(r))
		}
	}
	return out
}

func toRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// tabTitle names the user's tab. Characters the A1 notation cannot carry are
// replaced.
func tabTitle(prefix, userID string) string {
	title := strings.TrimSpace(prefix + " " + userID)
	title = strings.NewReplacer("'", "_", "!", "_", "[", "(", "]", ")", "*", "_", "?", "_", "/", "_", "\\", "_", ":", "_").Replace(title)
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}
	return title
}

func quoteRange(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", tab, cells)
}
