package sheets

import (
	"context"
	"strconv"
	"time"

	"finances/internal/core"
)

// MonthlyRecordMirror keeps an external copy of monthly records keyed by
// record id.
type MonthlyRecordMirror interface {
	UpsertMonthlyRecord(ctx context.Context, r core.MonthlyRecord) error
	DeleteMonthlyRecord(ctx context.Context, id int64) error
}

// Header is the first row of a mirror sheet. Row() follows the same order.
var Header = []any{"ID", "User ID", "Year ID", "Month", "Gross Salary", "Net Salary", "Updated At"}

// Row renders r as sheet cells. Amounts stay strings so the sheet never
// rounds them.
func Row(r core.MonthlyRecord) []any {
	return []any{
		strconv.FormatInt(r.ID, 10),
		r.UserID,
		r.YearID,
		r.Month,
		r.GrossSalary.String(),
		r.NetSalary.String(),
		r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
