package services

import (
	"testing"
	"time"

	"casa/internal/core"
)

func TestDailyChecker_IsDue(t *testing.T) {
	checker := DailyChecker{}
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	anchor := core.NewDate(2024, 1, 1)

	tests := []struct {
		name           string
		lastCompletion time.Time
		want           bool
	}{
		{
			name:           "never completed - is due",
			lastCompletion: time.Time{},
			want:           true,
		},
		{
			name:           "completed today - not due",
			lastCompletion: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			want:           false,
		},
		{
			name:           "completed yesterday - is due",
			lastCompletion: time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC),
			want:           true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastCompletion, now, anchor)
			if got != tt.want {
				t.Errorf("DailyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyChecker_IsDue(t *testing.T) {
	checker := WeeklyChecker{}
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		lastCompletion time.Time
		want           bool
	}{
		{"never completed - is due", time.Time{}, true},
		{"completed 3 days ago - not due", time.Date(2024, 1, 12, 12, 0, 0, 0, time.UTC), false},
		{"completed 7 days ago - is due", time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC), true},
		{"completed 10 days ago - is due", time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastCompletion, now, core.Date{})
			if got != tt.want {
				t.Errorf("WeeklyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyChecker_IsDue(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name           string
		anchor         core.Date
		lastCompletion time.Time
		now            time.Time
		want           bool
	}{
		{
			name:           "never completed - is due",
			anchor:         core.NewDate(2024, 1, 15),
			lastCompletion: time.Time{},
			now:            time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC),
			want:           true,
		},
		{
			name:           "completed this month - not due",
			anchor:         core.NewDate(2024, 1, 15),
			lastCompletion: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			now:            time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC),
			want:           false,
		},
		{
			name:           "completed last month, anchor day reached - is due",
			anchor:         core.NewDate(2024, 1, 15),
			lastCompletion: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			now:            time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC),
			want:           true,
		},
		{
			name:           "completed last month, anchor day not reached - not due",
			anchor:         core.NewDate(2024, 1, 15),
			lastCompletion: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			now:            time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC),
			want:           false,
		},
		{
			name:           "anchor on 31st clamps to end of February",
			anchor:         core.NewDate(2024, 1, 31),
			lastCompletion: time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
			now:            time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
			want:           true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastCompletion, tt.now, tt.anchor)
			if got != tt.want {
				t.Errorf("MonthlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearlyChecker_IsDue(t *testing.T) {
	checker := YearlyChecker{}
	anchor := core.NewDate(2023, 3, 15)

	tests := []struct {
		name           string
		lastCompletion time.Time
		now            time.Time
		want           bool
	}{
		{"never completed - is due", time.Time{}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"completed this year - not due", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"last year, before anchor month - not due", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), false},
		{"last year, anchor month before day - not due", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), false},
		{"last year, anchor day reached - is due", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"last year, after anchor month - is due", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastCompletion, tt.now, anchor)
			if got != tt.want {
				t.Errorf("YearlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDue(t *testing.T) {
	now := time.Date(2024, 2, 20, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		checker DuenessChecker
		anchor  core.Date
		want    core.Date
	}{
		{"daily is today", DailyChecker{}, core.Date{}, core.NewDate(2024, 2, 20)},
		{"weekly is today", WeeklyChecker{}, core.NewDate(2024, 1, 1), core.NewDate(2024, 2, 20)},
		{"monthly keeps anchor day", MonthlyChecker{}, core.NewDate(2023, 11, 5), core.NewDate(2024, 2, 5)},
		{"monthly clamps day", MonthlyChecker{}, core.NewDate(2023, 12, 31), core.NewDate(2024, 2, 29)},
		{"yearly keeps anchor month and day", YearlyChecker{}, core.NewDate(2022, 1, 10), core.NewDate(2024, 1, 10)},
		{"monthly without anchor uses now", MonthlyChecker{}, core.Date{}, core.NewDate(2024, 2, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.checker.NextDue(now, tt.anchor)
			if !got.Equal(tt.want.Time) {
				t.Errorf("NextDue() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	tests := []struct {
		recurrence core.Recurrence
		wantErr    bool
	}{
		{core.RecurrenceDaily, false},
		{core.RecurrenceWeekly, false},
		{core.RecurrenceMonthly, false},
		{core.RecurrenceYearly, false},
		{core.RecurrenceNone, true},
		{core.Recurrence("fortnightly"), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.recurrence), func(t *testing.T) {
			checker, err := GetDuenessChecker(tt.recurrence)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetDuenessChecker(%q) error = %v, wantErr %v", tt.recurrence, err, tt.wantErr)
			}
			if !tt.wantErr && checker == nil {
				t.Errorf("GetDuenessChecker(%q) returned nil checker", tt.recurrence)
			}
		})
	}
}

func TestClampDay(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
		want  int
	}{
		{2024, time.February, 31, 29},
		{2023, time.February, 30, 28},
		{2024, time.April, 31, 30},
		{2024, time.January, 15, 15},
	}
	for _, tt := range tests {
		if got := clampDay(tt.year, tt.month, tt.day); got != tt.want {
			t.Errorf("clampDay(%d, %s, %d) = %d, want %d", tt.year, tt.month, tt.day, got, tt.want)
		}
	}
}
