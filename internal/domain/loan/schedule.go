package loan

import "time"

// addMonthsClamped steps t forward by the given number of calendar months,
// clamping the day-of-month to the last day of shorter months. Jan 31 + 1
// month is Feb 28 (29 in a leap year), not Mar 2/3 as time.AddDate would
// normalize it to. The anchor's day-of-month is preserved whenever the
// target month is long enough.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// MonthlyAnniversaries returns anchor+1mo, anchor+2mo, ... up to and
// including ref. Empty if the first anniversary is still in the future.
func MonthlyAnniversaries(anchor, ref time.Time) []time.Time {
	var out []time.Time
	for i := 1; ; i++ {
		d := addMonthsClamped(anchor, i)
		if d.After(ref) {
			return out
		}
		out = append(out, d)
	}
}

// DuePeriods returns the ordered due/accrual dates implied by the loan's
// repayment cadence, from the loan's anchor up to and including ref. The
// anchor is CreatedAt, falling back to MaturityDate for legacy rows
// persisted without a creation timestamp. Lump-sum loans have a single due
// date at maturity.
func DuePeriods(l *Loan, ref time.Time) []time.Time {
	anchor := l.CreatedAt
	if anchor.IsZero() && l.MaturityDate != nil {
		anchor = *l.MaturityDate
	}

	switch l.Cadence {
	case CadenceMonthly:
		return MonthlyAnniversaries(anchor, ref)
	case CadenceBiweekly:
		var out []time.Time
		for d := anchor.AddDate(0, 0, 14); !d.After(ref); d = d.AddDate(0, 0, 14) {
			out = append(out, d)
		}
		return out
	default:
		if l.MaturityDate == nil || l.MaturityDate.After(ref) {
			return nil
		}
		return []time.Time{*l.MaturityDate}
	}
}
