package insights

import (
	"slices"
	"time"

	"casa/internal/core"
)

// MaxUpcomingDeadlines caps the deadline list shown on the finance dashboard.
const MaxUpcomingDeadlines = 5

type DeadlineType string

const (
	DeadlineRenewal DeadlineType = "renewal"
	DeadlinePayment DeadlineType = "payment"
)

// Deadline is an upcoming renewal or bill payment.
type Deadline struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Type       DeadlineType `json:"type"`
	Date       core.Date    `json:"date"`
	Amount     core.Money   `json:"amount"`
	Urgency    Urgency      `json:"urgency"`
	SourceID   string       `json:"sourceId"`
	PropertyID string       `json:"propertyId"`
}

// FinanceSummary is the portfolio-level monthly commitment.
type FinanceSummary struct {
	TotalMonthlyCommitment core.Money `json:"totalMonthlyCommitment"`
	InsuranceLoad          core.Money `json:"insuranceLoad"`
	UtilityBurn            core.Money `json:"utilityBurn"`
	UpcomingDeadlines      []Deadline `json:"upcomingDeadlines"`
}

// Finance aggregates premiums and utility costs and merges policy renewals
// with future utility invoices into one deadline list.
//
// UtilityBurn always sums the stored AverageMonthlyCost and ignores each
// account's UseCalculatedAverage switch; the per-account view in
// AnalyzeUtility honours it.
func Finance(policies []core.InsurancePolicy, accounts []core.UtilityAccount, now time.Time) FinanceSummary {
	var sum FinanceSummary
	for _, p := range policies {
		sum.InsuranceLoad = sum.InsuranceLoad.Add(p.Premium)
	}
	for _, a := range accounts {
		sum.UtilityBurn = sum.UtilityBurn.Add(a.AverageMonthlyCost)
	}
	sum.TotalMonthlyCommitment = sum.InsuranceLoad.Add(sum.UtilityBurn)
	sum.UpcomingDeadlines = UpcomingDeadlines(policies, accounts, now)
	return sum
}

// UpcomingDeadlines returns at most MaxUpcomingDeadlines entries sorted by
// date ascending, each annotated with its urgency.
func UpcomingDeadlines(policies []core.InsurancePolicy, accounts []core.UtilityAccount, now time.Time) []Deadline {
	all := make([]Deadline, 0, len(policies))
	for _, p := range policies {
		all = append(all, Deadline{
			ID:         "renewal-" + p.ID,
			Title:      p.Provider + " renewal",
			Type:       DeadlineRenewal,
			Date:       p.RenewalDate,
			Amount:     p.Premium,
			SourceID:   p.ID,
			PropertyID: p.PropertyID,
		})
	}
	for _, a := range accounts {
		for _, inv := range a.Invoices {
			// Invalid dates are never "in the future".
			if !inv.DueDateUTC.Valid() || !inv.DueDateUTC.After(now) {
				continue
			}
			all = append(all, Deadline{
				ID:         "payment-" + inv.ID,
				Title:      a.Provider + " bill",
				Type:       DeadlinePayment,
				Date:       inv.DueDateUTC,
				Amount:     inv.Amount,
				SourceID:   a.ID,
				PropertyID: a.PropertyID,
			})
		}
	}

	slices.SortStableFunc(all, compareDeadlines)
	for i := range all {
		all[i].Urgency = ClassifyDeadline(DaysUntil(all[i].Date, now))
	}
	if len(all) > MaxUpcomingDeadlines {
		all = all[:MaxUpcomingDeadlines]
	}
	return all
}

// compareDeadlines orders by date ascending; entries without a valid date go
// last, keeping their relative order.
func compareDeadlines(a, b Deadline) int {
	av, bv := a.Date.Valid(), b.Date.Valid()
	switch {
	case av && bv:
		return a.Date.Compare(b.Date.Time)
	case av:
		return -1
	case bv:
		return 1
	default:
		return 0
	}
}
