package insights

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"casa/internal/core"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func in(days int) core.Date {
	return core.DateOf(now.Add(time.Duration(days) * 24 * time.Hour))
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name   string
		due    core.Date
		want   int
		wantOK bool
	}{
		{name: "exact days", due: in(3), want: 3, wantOK: true},
		{name: "partial day rounds up", due: core.DateOf(now.Add(36 * time.Hour)), want: 2, wantOK: true},
		{name: "same instant", due: core.DateOf(now), want: 0, wantOK: true},
		{name: "past partial day rounds toward zero", due: core.DateOf(now.Add(-36 * time.Hour)), want: -1, wantOK: true},
		{name: "invalid date", due: core.Date{}, want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DaysUntil(tt.due, now)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DaysUntil() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClassifyDeadline(t *testing.T) {
	tests := []struct {
		days int
		ok   bool
		want Urgency
	}{
		{-3, true, UrgencyCritical},
		{6, true, UrgencyCritical},
		{7, true, UrgencySoon},
		{13, true, UrgencySoon},
		{14, true, UrgencyNormal},
		{0, false, UrgencyNormal},
	}
	for _, tt := range tests {
		if got := ClassifyDeadline(tt.days, tt.ok); got != tt.want {
			t.Errorf("ClassifyDeadline(%d, %v) = %s, want %s", tt.days, tt.ok, got, tt.want)
		}
	}
}

func TestFinance_Totals(t *testing.T) {
	policies := []core.InsurancePolicy{
		{Record: core.Record{ID: "pol1"}, Provider: "Acme", Premium: core.Cents(4500), RenewalDate: in(40)},
		{Record: core.Record{ID: "pol2"}, Provider: "Zurich", Premium: core.Cents(5500), RenewalDate: in(90)},
	}
	accounts := []core.UtilityAccount{
		// The calculated-average switch does not affect the portfolio burn.
		{Record: core.Record{ID: "u1"}, Provider: "Power", AverageMonthlyCost: core.Cents(8000), UseCalculatedAverage: true,
			Invoices: []core.UtilityInvoice{{ID: "i1", Amount: core.Cents(20000), DueDateUTC: in(-20)}}},
		{Record: core.Record{ID: "u2"}, Provider: "Water", AverageMonthlyCost: core.Cents(2000)},
	}

	got := Finance(policies, accounts, now)

	if got.InsuranceLoad != core.Cents(10000) {
		t.Errorf("InsuranceLoad = %s, want 100.00", got.InsuranceLoad)
	}
	if got.UtilityBurn != core.Cents(10000) {
		t.Errorf("UtilityBurn = %s, want 100.00", got.UtilityBurn)
	}
	if got.TotalMonthlyCommitment != core.Cents(20000) {
		t.Errorf("TotalMonthlyCommitment = %s, want 200.00", got.TotalMonthlyCommitment)
	}
	// Past invoice is excluded; both renewals remain.
	if len(got.UpcomingDeadlines) != 2 {
		t.Errorf("UpcomingDeadlines = %d entries, want 2", len(got.UpcomingDeadlines))
	}
}

func TestFinance_Empty(t *testing.T) {
	got := Finance(nil, nil, now)
	if !got.TotalMonthlyCommitment.IsZero() || len(got.UpcomingDeadlines) != 0 {
		t.Errorf("Finance(nil, nil) = %+v, want zero summary", got)
	}
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"upcomingDeadlines":[]`) {
		t.Errorf("Finance(nil, nil) JSON = %s, want an empty deadline list", b)
	}
}

func TestUpcomingDeadlines_SevenPoliciesThreeInvoices(t *testing.T) {
	var policies []core.InsurancePolicy
	for i, days := range []int{60, 1, 15, 8, 40, 12, 3} {
		policies = append(policies, core.InsurancePolicy{
			Record:      core.Record{ID: fmt.Sprintf("pol%d", i)},
			Provider:    "Insurer",
			RenewalDate: in(days),
		})
	}
	accounts := []core.UtilityAccount{{
		Record:   core.Record{ID: "u1"},
		Provider: "Water",
		Invoices: []core.UtilityInvoice{
			{ID: "i1", Amount: core.Cents(100), DueDateUTC: in(20)},
			{ID: "i2", Amount: core.Cents(100), DueDateUTC: in(9)},
			{ID: "i3", Amount: core.Cents(100), DueDateUTC: in(2)},
		},
	}}

	got := UpcomingDeadlines(policies, accounts, now)

	if len(got) > MaxUpcomingDeadlines {
		t.Fatalf("len = %d, want at most %d", len(got), MaxUpcomingDeadlines)
	}
	for i, d := range got {
		if i > 0 && d.Date.Before(got[i-1].Date.Time) {
			t.Errorf("deadlines not ascending at %d", i)
		}
		days, ok := DaysUntil(d.Date, now)
		var want Urgency
		switch {
		case days < 7:
			want = UrgencyCritical
		case days < 14:
			want = UrgencySoon
		default:
			want = UrgencyNormal
		}
		if !ok || d.Urgency != want {
			t.Errorf("deadline %s at %d days: urgency = %s, want %s", d.ID, days, d.Urgency, want)
		}
	}
	if got[0].ID != "renewal-pol1" || got[len(got)-1].ID != "payment-i2" {
		t.Errorf("first/last = %s/%s, want renewal-pol1/payment-i2", got[0].ID, got[len(got)-1].ID)
	}
}

func TestUpcomingDeadlines_OrderCapAndUrgency(t *testing.T) {
	policies := []core.InsurancePolicy{
		{Record: core.Record{ID: "late"}, Provider: "Late", RenewalDate: in(20)},
		{Record: core.Record{ID: "soon"}, Provider: "Soon", RenewalDate: in(10)},
		{Record: core.Record{ID: "broken"}, Provider: "Broken"},
	}
	accounts := []core.UtilityAccount{{
		Record:   core.Record{ID: "u1"},
		Provider: "Power",
		Invoices: []core.UtilityInvoice{
			{ID: "i3", Amount: core.Cents(300), DueDateUTC: in(30)},
			{ID: "i2", Amount: core.Cents(200), DueDateUTC: in(5)},
			{ID: "i1", Amount: core.Cents(100), DueDateUTC: in(2)},
			{ID: "past", Amount: core.Cents(100), DueDateUTC: in(-1)},
			{ID: "nodate", Amount: core.Cents(100)},
		},
	}}

	got := UpcomingDeadlines(policies, accounts, now)

	wantIDs := []string{"payment-i1", "payment-i2", "renewal-soon", "renewal-late", "payment-i3"}
	wantUrgency := []Urgency{UrgencyCritical, UrgencyCritical, UrgencySoon, UrgencyNormal, UrgencyNormal}
	if len(got) != MaxUpcomingDeadlines {
		t.Fatalf("len = %d, want %d", len(got), MaxUpcomingDeadlines)
	}
	for i, d := range got {
		if d.ID != wantIDs[i] {
			t.Errorf("deadline[%d].ID = %s, want %s", i, d.ID, wantIDs[i])
		}
		if d.Urgency != wantUrgency[i] {
			t.Errorf("deadline[%d].Urgency = %s, want %s", i, d.Urgency, wantUrgency[i])
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date.Time) {
			t.Errorf("deadlines not ascending at %d", i)
		}
	}
}

func TestUpcomingDeadlines_InvalidDateSortsLastAsNormal(t *testing.T) {
	policies := []core.InsurancePolicy{
		{Record: core.Record{ID: "broken"}, Provider: "Broken"},
		{Record: core.Record{ID: "ok"}, Provider: "Ok", RenewalDate: in(1)},
	}

	got := UpcomingDeadlines(policies, nil, now)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "renewal-ok" || got[1].ID != "renewal-broken" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].Urgency != UrgencyNormal {
		t.Errorf("invalid date urgency = %s, want normal", got[1].Urgency)
	}
}
