// Package accrual computes the late-fee and interest charges a loan is
// missing relative to its schedule. Everything here is a pure function over
// a loan/payments snapshot: the caller persists the synthesized rows and the
// balance delta, and the existence counts against already-persisted rows are
// the only deduplication, so charges must be persisted (and the snapshot
// refreshed) before calling again.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"lendpact/internal/domain/loan"
	"lendpact/internal/domain/payment"
)

// GraceDays is the window after a due date before a late fee is owed.
const GraceDays = 3

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// MissingLateFees counts the late fees owed but not yet recorded at ref.
// A due date is overdue once dueDate+GraceDays is strictly before ref.
// Guard failures (loan not active, late fees disabled) degrade to zero,
// never to an error: catch-up is best effort.
func MissingLateFees(l *loan.Loan, payments []payment.Payment, ref time.Time) int {
	if l.Status != loan.StatusActive || !l.LateFee.IsPositive() {
		return 0
	}
	overdue := 0
	for _, due := range loan.DuePeriods(l, ref) {
		if due.AddDate(0, 0, GraceDays).Before(ref) {
			overdue++
		}
	}
	missing := overdue - payment.CountByType(payments, payment.TypeLateFee)
	if missing < 0 {
		return 0
	}
	return missing
}

// MonthlyInterest is the periodic charge amount: principal * rate% / 12,
// rounded to cents.
func MonthlyInterest(l *loan.Loan) decimal.Decimal {
	return l.Principal.Mul(l.InterestRate).Div(hundred).Div(twelve).Round(2)
}

// MissingInterest returns how many periodic interest charges are owed but
// not recorded at ref, and the per-charge amount. Interest accrues on
// monthly anniversaries of creation regardless of the repayment cadence.
// Fixed-type loans never produce periodic charges.
func MissingInterest(l *loan.Loan, payments []payment.Payment, ref time.Time) (int, decimal.Decimal) {
	if l.Status != loan.StatusActive || !l.InterestRate.IsPositive() || l.InterestType == loan.InterestFixed {
		return 0, decimal.Zero
	}
	expected := len(loan.MonthlyAnniversaries(l.CreatedAt, ref))
	missing := expected - payment.CountByType(payments, payment.TypeInterest)
	if missing <= 0 {
		return 0, decimal.Zero
	}
	return missing, MonthlyInterest(l)
}

// FixedInterestDue reports the one-time flat charge for fixed-type loans.
// The rate field holds a flat amount in this branch, a quirk kept from the
// legacy terms. At most one charge ever exists; the existence check against
// the snapshot is the idempotence mechanism.
func FixedInterestDue(l *loan.Loan, payments []payment.Payment) (decimal.Decimal, bool) {
	if l.Status != loan.StatusActive || l.InterestType != loan.InterestFixed || !l.InterestRate.IsPositive() {
		return decimal.Zero, false
	}
	if payment.CountByType(payments, payment.TypeInterest) > 0 {
		return decimal.Zero, false
	}
	return l.InterestRate.Round(2), true
}
