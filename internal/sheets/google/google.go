package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finances/internal/cache"
	"finances/internal/core"
	"finances/internal/log"
	ports "finances/internal/sheets"
)

var _ ports.MonthlyRecordMirror = (*Client)(nil)

const (
	rowIndexSize = 4096
	rowIndexTTL  = 30 * time.Minute
	lastColumn   = "G"
)

// Client mirrors monthly records into one sheet, one row per record. Column A
// holds the record id; row numbers are remembered in an LRU index so updates
// do not rescan the sheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	rows          *cache.LRU[int64, int]
	logger        *log.Logger
}

func New(svc *gsheet.Service, spreadsheetID, sheetName string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		rows:          cache.NewLRU[int64, int](rowIndexSize, rowIndexTTL),
		logger:        logger.WithComponent(log.ComponentSheets).With(log.FieldSheet, sheetName),
	}
}

// NewFromEnv builds a client authenticated with a service account taken from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, spreadsheetID, sheetName string, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	creds, err := serviceAccountCredentials()
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return New(svc, spreadsheetID, sheetName, logger), nil
}

func serviceAccountCredentials() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

// RowIndex exposes the row cache so a janitor can sweep it.
func (c *Client) RowIndex() *cache.LRU[int64, int] {
	return c.rows
}

// UpsertMonthlyRecord overwrites the record's row or appends a new one.
func (c *Client) UpsertMonthlyRecord(ctx context.Context, r core.MonthlyRecord) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	row, found, err := c.findRow(ctx, r.ID)
	if err != nil {
		return err
	}
	vr := &gsheet.ValueRange{Values: [][]any{ports.Row(r)}}

	if found {
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.rowRange(row), vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			c.rows.Delete(r.ID)
			return fmt.Errorf("update row %d in %s: %w", row, c.sheetName, err)
		}
		c.logger.DebugContext(ctx, "Updated sheet row",
			log.FieldOperation, log.OpMirror, log.FieldResourceID, r.ID, log.FieldRow, row)
		return nil
	}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetName+"!A:"+lastColumn, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", c.sheetName, err)
	}
	if resp.Updates != nil {
		if n, err := rowFromRange(resp.Updates.UpdatedRange); err == nil {
			c.rows.Set(r.ID, n)
		}
	}
	c.logger.DebugContext(ctx, "Appended sheet row", log.FieldOperation, log.OpMirror, log.FieldResourceID, r.ID)
	return nil
}

// DeleteMonthlyRecord blanks the record's row. Clearing instead of removing
// keeps every other cached row number valid.
func (c *Client) DeleteMonthlyRecord(ctx context.Context, id int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	row, found, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, c.rowRange(row), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear row %d in %s: %w", row, c.sheetName, err)
	}
	c.rows.Delete(id)
	c.logger.DebugContext(ctx, "Cleared sheet row",
		log.FieldOperation, log.OpMirror, log.FieldResourceID, id, log.FieldRow, row)
	return nil
}

// findRow returns the 1-based row holding id. A scan of column A refreshes
// the index for every id it sees and writes the header into an empty sheet.
func (c *Client) findRow(ctx context.Context, id int64) (int, bool, error) {
	if row, ok := c.rows.Get(id); ok {
		return row, true, nil
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetName+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("read ids from %s: %w", c.sheetName, err)
	}

	if len(resp.Values) == 0 {
		if err := c.writeHeader(ctx); err != nil {
			return 0, false, err
		}
		return 0, false, nil
	}

	found := 0
	for i, cells := range resp.Values {
		if len(cells) == 0 {
			continue
		}
		cellID, err := strconv.ParseInt(strings.TrimSpace(fmt.Sprint(cells[0])), 10, 64)
		if err != nil {
			continue
		}
		c.rows.Set(cellID, i+1)
		if cellID == id {
			found = i + 1
		}
	}
	return found, found > 0, nil
}

func (c *Client) writeHeader(ctx context.Context) error {
	vr := &gsheet.ValueRange{Values: [][]any{ports.Header}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.rowRange(1), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header to %s: %w", c.sheetName, err)
	}
	return nil
}

func (c *Client) rowRange(row int) string {
	return fmt.Sprintf("%s!A%d:%s%d", c.sheetName, row, lastColumn, row)
}

// rowFromRange extracts the first row number of an A1 range such as
// "'Monthly Records'!A7:G7".
func rowFromRange(a1 string) (int, error) {
	ref := a1
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	if i := strings.Index(ref, ":"); i >= 0 {
		ref = ref[:i]
	}
	digits := strings.TrimLeft(ref, "ABCDEFGHIJKLMNOPQRSTUVWXYZ$")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("no row in range %q", a1)
	}
	return n, nil
}
