package loan

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDuePeriods_Monthly(t *testing.T) {
	l := &Loan{Cadence: CadenceMonthly, CreatedAt: date(2025, time.January, 15)}

	got := DuePeriods(l, date(2025, time.April, 20))
	want := []time.Time{
		date(2025, time.February, 15),
		date(2025, time.March, 15),
		date(2025, time.April, 15),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d periods, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("period[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDuePeriods_Monthly_EmptyBeforeFirstAnniversary(t *testing.T) {
	l := &Loan{Cadence: CadenceMonthly, CreatedAt: date(2025, time.January, 15)}
	if got := DuePeriods(l, date(2025, time.February, 14)); len(got) != 0 {
		t.Fatalf("want empty, got %v", got)
	}
}

func TestDuePeriods_Monthly_IncludesBoundaryDay(t *testing.T) {
	l := &Loan{Cadence: CadenceMonthly, CreatedAt: date(2025, time.January, 15)}
	got := DuePeriods(l, date(2025, time.February, 15))
	if len(got) != 1 || !got[0].Equal(date(2025, time.February, 15)) {
		t.Fatalf("want exactly the first anniversary, got %v", got)
	}
}

func TestDuePeriods_MonthEndClamping(t *testing.T) {
	// Anchor on Jan 31: Feb clamps to its last day, longer months restore
	// the anchor day.
	l := &Loan{Cadence: CadenceMonthly, CreatedAt: date(2025, time.January, 31)}
	got := DuePeriods(l, date(2025, time.May, 31))
	want := []time.Time{
		date(2025, time.February, 28),
		date(2025, time.March, 31),
		date(2025, time.April, 30),
		date(2025, time.May, 31),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d periods, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("period[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDuePeriods_MonthEndClamping_LeapYear(t *testing.T) {
	l := &Loan{Cadence: CadenceMonthly, CreatedAt: date(2024, time.January, 31)}
	got := DuePeriods(l, date(2024, time.March, 1))
	if len(got) != 1 || !got[0].Equal(date(2024, time.February, 29)) {
		t.Fatalf("want leap-day clamp, got %v", got)
	}
}

func TestDuePeriods_Biweekly(t *testing.T) {
	l := &Loan{Cadence: CadenceBiweekly, CreatedAt: date(2025, time.March, 1)}
	got := DuePeriods(l, date(2025, time.April, 15))
	want := []time.Time{
		date(2025, time.March, 15),
		date(2025, time.March, 29),
		date(2025, time.April, 12),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d periods, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("period[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDuePeriods_LumpSum(t *testing.T) {
	mat := date(2025, time.June, 1)
	l := &Loan{Cadence: CadenceLumpSum, CreatedAt: date(2025, time.January, 1), MaturityDate: &mat}

	if got := DuePeriods(l, date(2025, time.May, 31)); len(got) != 0 {
		t.Fatalf("before maturity want empty, got %v", got)
	}
	got := DuePeriods(l, date(2025, time.June, 1))
	if len(got) != 1 || !got[0].Equal(mat) {
		t.Fatalf("at maturity want [maturity], got %v", got)
	}
}

func TestDuePeriods_LumpSum_NoMaturity(t *testing.T) {
	l := &Loan{Cadence: CadenceLumpSum, CreatedAt: date(2025, time.January, 1)}
	if got := DuePeriods(l, date(2026, time.January, 1)); got != nil {
		t.Fatalf("want nil without maturity, got %v", got)
	}
}

func TestDuePeriods_FallsBackToMaturityAnchor(t *testing.T) {
	// legacy rows without created_at anchor on maturity
	mat := date(2025, time.January, 10)
	l := &Loan{Cadence: CadenceMonthly, MaturityDate: &mat}
	got := DuePeriods(l, date(2025, time.March, 15))
	if len(got) != 2 || !got[0].Equal(date(2025, time.February, 10)) {
		t.Fatalf("want anchor on maturity, got %v", got)
	}
}

func TestDuePeriods_StrictlyIncreasing(t *testing.T) {
	l := &Loan{Cadence: CadenceMonthly, CreatedAt: date(2024, time.May, 31)}
	got := DuePeriods(l, date(2025, time.May, 31))
	for i := 1; i < len(got); i++ {
		if !got[i].After(got[i-1]) {
			t.Fatalf("sequence not strictly increasing at %d: %v", i, got)
		}
	}
}
