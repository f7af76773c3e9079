package insights

import (
	"time"

	"casa/internal/core"
)

// RenewalCriticalWithinDays is the policy renewal warning threshold. It is
// deliberately separate from the 7/14 day deadline thresholds.
const RenewalCriticalWithinDays = 30

// RenewalStatus describes how close a policy is to renewal.
type RenewalStatus struct {
	DaysUntilRenewal int  `json:"daysUntilRenewal"`
	Known            bool `json:"known"`
	IsCritical       bool `json:"isCritical"`
}

// PolicyLedger is the claim ledger of one insurance policy.
type PolicyLedger struct {
	PolicyID       string        `json:"policyId"`
	TotalRecovered core.Money    `json:"totalRecovered"`
	OpenClaims     int           `json:"openClaims"`
	ResolvedClaims int           `json:"resolvedClaims"`
	Renewal        RenewalStatus `json:"renewal"`
}

// TotalRecovered sums payouts across all claims whatever their status, so
// provisional payout estimates are included alongside settled amounts.
// Claims without a payout count as zero.
func TotalRecovered(claims []core.InsuranceClaim) core.Money {
	var total core.Money
	for _, c := range claims {
		total = total.Add(c.PayoutAmount.Value())
	}
	return total
}

// RenewalUrgency reports days until renewal and whether it is under 30 days.
// An invalid renewal date is never critical.
func RenewalUrgency(renewal core.Date, now time.Time) RenewalStatus {
	days, ok := DaysUntil(renewal, now)
	return RenewalStatus{
		DaysUntilRenewal: days,
		Known:            ok,
		IsCritical:       ok && days < RenewalCriticalWithinDays,
	}
}

// Ledger builds the policy ledger.
func Ledger(p core.InsurancePolicy, now time.Time) PolicyLedger {
	l := PolicyLedger{
		PolicyID:       p.ID,
		TotalRecovered: TotalRecovered(p.Claims),
		Renewal:        RenewalUrgency(p.RenewalDate, now),
	}
	for _, c := range p.Claims {
		if c.Status.Resolved() {
			l.ResolvedClaims++
		} else {
			l.OpenClaims++
		}
	}
	return l
}
