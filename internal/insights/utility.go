package insights

import (
	"github.com/shopspring/decimal"

	"casa/internal/core"
)

type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// Trend compares the two most recent invoices.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	Percent   int64          `json:"percent"`
	Diff      core.Money     `json:"diff"`
}

// UtilityAnalysis is the account detail view.
type UtilityAnalysis struct {
	AccountID         string     `json:"accountId"`
	InvoiceCount      int        `json:"invoiceCount"`
	CalculatedAverage core.Money `json:"calculatedAverage"`
	StaticAverage     core.Money `json:"staticAverage"`
	UsesCalculated    bool       `json:"usesCalculated"`
	BurnRate          core.Money `json:"burnRate"`
	Trend             *Trend     `json:"trend"`
}

var half = decimal.New(5, -1)

// roundHalfUp rounds to the nearest integer with halves going up, the way the
// dashboard has always rounded (-2.5 becomes -2).
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

// CalculatedAverage is the mean invoice amount rounded to the cent, zero when
// there are no invoices.
func CalculatedAverage(invoices []core.UtilityInvoice) core.Money {
	if len(invoices) == 0 {
		return core.Money{}
	}
	var sum int64
	for _, inv := range invoices {
		sum += inv.Amount.Cents
	}
	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(invoices))))
	return core.Cents(roundHalfUp(mean))
}

// InvoiceTrend compares invoices[0] with invoices[1], most recent first.
// ok is false with fewer than two invoices or a zero previous amount.
func InvoiceTrend(invoices []core.UtilityInvoice) (Trend, bool) {
	if len(invoices) < 2 {
		return Trend{}, false
	}
	latest, previous := invoices[0].Amount, invoices[1].Amount
	if previous.IsZero() {
		return Trend{}, false
	}
	diff := latest.Cents - previous.Cents
	pct := decimal.NewFromInt(diff).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(previous.Cents))

	t := Trend{Percent: roundHalfUp(pct), Diff: core.Cents(diff), Direction: TrendNeutral}
	switch {
	case diff > 0:
		t.Direction = TrendUp
	case diff < 0:
		t.Direction = TrendDown
	}
	return t, true
}

// BurnRate is the account's displayed monthly cost: the calculated average
// when UseCalculatedAverage is set, the stored static figure otherwise.
func BurnRate(a core.UtilityAccount) core.Money {
	if a.UseCalculatedAverage {
		return CalculatedAverage(a.Invoices)
	}
	return a.AverageMonthlyCost
}

// AnalyzeUtility builds the account detail view.
func AnalyzeUtility(a core.UtilityAccount) UtilityAnalysis {
	out := UtilityAnalysis{
		AccountID:         a.ID,
		InvoiceCount:      len(a.Invoices),
		CalculatedAverage: CalculatedAverage(a.Invoices),
		StaticAverage:     a.AverageMonthlyCost,
		UsesCalculated:    a.UseCalculatedAverage,
		BurnRate:          BurnRate(a),
	}
	if t, ok := InvoiceTrend(a.Invoices); ok {
		out.Trend = &t
	}
	return out
}
