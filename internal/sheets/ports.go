// Package sheets holds the deadline export port and its digest format.
package sheets

import (
	"context"
	"time"

	"casa/internal/insights"
)

// Digest is what gets exported after a change: the finance summary of one
// property (or of everything when PropertyID is empty).
type Digest struct {
	PropertyID  string
	GeneratedAt time.Time
	Revision    uint64
	Finance     insights.FinanceSummary
}

// Ports for outbound adapters.
type (
	DeadlineExporter interface {
		// ExportDeadlines replaces the exported digest for d.PropertyID and
		// returns a reference to where it was written.
		ExportDeadlines(ctx context.Context, d Digest) (ref string, err error)
	}
)

// Header is the first row of an exported digest.
var Header = []any{"Date", "Type", "Title", "Amount", "Urgency", "Source", "Property"}

// Rows renders the digest as sheet rows: header, one row per deadline,
// a blank line and the three monthly totals.
func Rows(d Digest) [][]any {
	rows := make([][]any, 0, len(d.Finance.UpcomingDeadlines)+5)
	rows = append(rows, Header)
	for _, dl := range d.Finance.UpcomingDeadlines {
		date := ""
		if dl.Date.Valid() {
			date = dl.Date.Format(time.DateOnly)
		}
		rows = append(rows, []any{
			date, string(dl.Type), dl.Title, dl.Amount.Euros(), string(dl.Urgency), dl.SourceID, dl.PropertyID,
		})
	}
	rows = append(rows,
		[]any{},
		[]any{"Insurance load", "", "", d.Finance.InsuranceLoad.Euros()},
		[]any{"Utility burn", "", "", d.Finance.UtilityBurn.Euros()},
		[]any{"Total monthly commitment", "", "", d.Finance.TotalMonthlyCommitment.Euros()},
	)
	return rows
}
