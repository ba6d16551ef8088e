package accrual

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lendpact/internal/domain/accrual"
	loanDomain "lendpact/internal/domain/loan"
	"lendpact/internal/domain/payment"
	"lendpact/internal/domain/uow"
	"lendpact/pkg/id"
)

// lock TTL bounds how long a crashed catch-up can block the next one.
const lockTTL = 30 * time.Second

var ErrCatchUpInProgress = errors.New("catch-up already running for this loan")

// Locker serializes catch-up per loan across processes. The redis-backed
// implementation lives in infrastructure/cache.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Runner struct {
	uow    uow.UnitOfWork
	locker Locker
	now    func() time.Time
}

// NewRunner: locker may be nil (tests, single-process setups); the database
// row lock inside WithinLoanTx still serializes writers, the distributed
// lock only prevents two callers from both computing the same missing set.
func NewRunner(tx uow.UnitOfWork, locker Locker) *Runner {
	return &Runner{uow: tx, locker: locker, now: func() time.Time { return time.Now().UTC() }}
}

type Result struct {
	LoanID          string          `json:"loan_id"`
	LateFees        int             `json:"late_fees"`
	InterestCharges int             `json:"interest_charges"`
	FixedInterest   bool            `json:"fixed_interest"`
	BalanceDelta    decimal.Decimal `json:"balance_delta"`
	Balance         decimal.Decimal `json:"remaining_balance"`
}

// CatchUp reconciles a loan's ledger with its schedule: synthesizes the
// missing late-fee and interest rows (pre-approved, system-generated) and
// bumps the balance by their sum, all in one transaction. Idempotent: the
// counts are computed against the rows already persisted, so a second run
// right after finds nothing missing.
func (r *Runner) CatchUp(ctx context.Context, loanID string) (*Result, error) {
	if r.locker != nil {
		key := "accrual:loan:" + loanID
		ok, err := r.locker.Acquire(ctx, key, lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire catch-up lock: %w", err)
		}
		if !ok {
			return nil, ErrCatchUpInProgress
		}
		defer func() { _ = r.locker.Release(context.WithoutCancel(ctx), key) }()
	}

	now := r.now()
	var res *Result
	err := r.uow.WithinLoanTx(ctx, loanID, func(repos uow.Repos, l *loanDomain.Loan) error {
		existing, err := repos.Payments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}

		res = &Result{LoanID: l.LoanID, BalanceDelta: decimal.Zero}
		var rows []*payment.Payment

		if n := accrual.MissingLateFees(l, existing, now); n > 0 {
			res.LateFees = n
			for i := 0; i < n; i++ {
				rows = append(rows, chargeRow(l.ID, l.LateFee, payment.TypeLateFee, now))
			}
			res.BalanceDelta = res.BalanceDelta.Add(l.LateFee.Mul(decimal.NewFromInt(int64(n))))
		}

		if n, per := accrual.MissingInterest(l, existing, now); n > 0 {
			res.InterestCharges = n
			for i := 0; i < n; i++ {
				rows = append(rows, chargeRow(l.ID, per, payment.TypeInterest, now))
			}
			res.BalanceDelta = res.BalanceDelta.Add(per.Mul(decimal.NewFromInt(int64(n))))
		}

		if amount, due := accrual.FixedInterestDue(l, existing); due {
			res.FixedInterest = true
			rows = append(rows, chargeRow(l.ID, amount, payment.TypeInterest, l.CreatedAt))
			res.BalanceDelta = res.BalanceDelta.Add(amount)
		}

		if len(rows) == 0 {
			res.Balance = l.RemainingBalance
			return nil
		}
		if err := repos.Payments.CreateBatch(ctx, rows); err != nil {
			return err
		}
		l.RemainingBalance = l.RemainingBalance.Add(res.BalanceDelta)
		if err := repos.Loans.Save(ctx, l); err != nil {
			return err
		}
		res.Balance = l.RemainingBalance
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

func chargeRow(loanID uint64, amount decimal.Decimal, t payment.Type, date time.Time) *payment.Payment {
	return &payment.Payment{
		PaymentID: id.NewID32(),
		LoanID:    loanID,
		Amount:    amount,
		Date:      date,
		Type:      t,
		Status:    payment.StatusApproved,
	}
}
