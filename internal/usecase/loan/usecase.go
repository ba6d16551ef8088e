package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "lendpact/internal/domain/loan"
	"lendpact/internal/domain/payment"
	"lendpact/internal/domain/uow"
	"lendpact/internal/usecase/agreement"
	"lendpact/pkg/id"
)

var maxInterestRate = decimal.NewFromInt(15)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	docs *agreement.Generator
	now  func() time.Time
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, docs *agreement.Generator) *Usecase {
	return &Usecase{repo: r, uow: tx, docs: docs, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if len(in.LenderID) != 32 {
		return nil, fmt.Errorf("%w: lender_id must be a 32-char id", domain.ErrValidation)
	}
	if in.BorrowerID != "" && len(in.BorrowerID) != 32 {
		return nil, fmt.Errorf("%w: borrower_id must be a 32-char id", domain.ErrValidation)
	}
	if !in.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal must be positive", domain.ErrValidation)
	}
	if in.InterestRate.IsNegative() || in.InterestRate.GreaterThan(maxInterestRate) {
		return nil, fmt.Errorf("%w: interest rate must be between 0 and 15", domain.ErrValidation)
	}
	if in.LateFee.IsNegative() {
		return nil, fmt.Errorf("%w: late fee cannot be negative", domain.ErrValidation)
	}
	itype := domain.InterestPeriodic
	if in.InterestType == string(domain.InterestFixed) {
		itype = domain.InterestFixed
	}
	cadence := domain.ParseCadence(in.RepaymentSchedule)
	if cadence == domain.CadenceLumpSum && in.MaturityDate == nil {
		return nil, fmt.Errorf("%w: lump-sum loans need a maturity date", domain.ErrValidation)
	}

	// One open draft per pair at a time.
	if in.BorrowerID != "" {
		pending, err := u.repo.GetOpenDraftByParties(ctx, in.LenderID, in.BorrowerID)
		switch {
		case err == nil:
			return nil, fmt.Errorf("pair already has an open draft: %s", pending.LoanID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	l := &domain.Loan{
		LoanID:           id.NewID32(),
		LenderID:         in.LenderID,
		BorrowerID:       in.BorrowerID,
		Principal:        in.Principal,
		InterestRate:     in.InterestRate,
		InterestType:     itype,
		Cadence:          cadence,
		LateFee:          in.LateFee,
		MaturityDate:     in.MaturityDate,
		Status:           domain.StatusDraft,
		RemainingBalance: in.Principal,
		StatusUpdatedAt:  u.now(),
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context, actorID string) ([]LoanDTO, error) {
	ls, err := u.repo.ListByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

// Transition applies a lifecycle event inside a row-locked transaction.
// Lender signature generates the agreement text if absent; marking funds
// sent records the funding ledger entry; forgiveness generates the release
// document. The funding entry never moves the balance, which already equals
// the principal from creation.
func (u *Usecase) Transition(ctx context.Context, in TransitionInput) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		role, ok := l.RoleOf(in.ActorID)
		if !ok {
			return domain.ErrUnauthorized
		}
		now := u.now()
		if err := domain.ApplyTransition(l, in.Event, role, domain.TransitionInput{
			Now: now, IP: in.IP, Reason: in.Reason,
		}); err != nil {
			return err
		}

		switch in.Event {
		case domain.EventLenderSign:
			if l.AgreementText == "" {
				text, err := u.docs.Agreement(l)
				if err != nil {
					return err
				}
				l.AgreementText = text
			}
		case domain.EventMarkFundsSent:
			if err := r.Payments.Create(ctx, &payment.Payment{
				PaymentID: id.NewID32(),
				LoanID:    l.ID,
				Amount:    l.Principal,
				Date:      now,
				Type:      payment.TypeFunding,
				Status:    payment.StatusApproved,
			}); err != nil {
				return err
			}
		case domain.EventForgive:
			text, err := u.docs.Release(l)
			if err != nil {
				return err
			}
			l.ReleaseText = text
		}

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// Delete removes a draft. Only the lender may delete, and only while the
// loan never left draft.
func (u *Usecase) Delete(ctx context.Context, loanID, actorID string) error {
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if role, ok := l.RoleOf(actorID); !ok || role != domain.RoleLender {
			return domain.ErrUnauthorized
		}
		if l.Status != domain.StatusDraft {
			return domain.ErrInvalidTransition
		}
		return r.Loans.SoftDelete(ctx, l, actorID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
