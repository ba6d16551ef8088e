package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	loanDomain "lendpact/internal/domain/loan"
	domain "lendpact/internal/domain/payment"
	"lendpact/internal/domain/uow"
	"lendpact/pkg/id"
)

// ProofStore is the slice of object storage the ledger needs: stash a proof
// image, hand back a short-lived link for the lender to inspect it.
type ProofStore interface {
	Upload(ctx context.Context, loanID string, data []byte, contentType string) (object string, err error)
	SignedURL(object string) (string, error)
}

type Usecase struct {
	uow    uow.UnitOfWork
	proofs ProofStore
	now    func() time.Time
}

// NewUsecase: proofs may be nil when object storage is not configured;
// recording payments then rejects attachments but otherwise works.
func NewUsecase(tx uow.UnitOfWork, proofs ProofStore) *Usecase {
	return &Usecase{uow: tx, proofs: proofs, now: func() time.Time { return time.Now().UTC() }}
}

type RecordRepaymentInput struct {
	LoanID  string
	ActorID string
	Amount  decimal.Decimal
	Date    time.Time
	// Optional proof image.
	Proof            []byte
	ProofContentType string
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type DecideInput struct {
	PaymentID string
	ActorID   string
	Decision  Decision
	Reason    string
}

type PaymentDTO struct {
	PaymentID       string          `json:"payment_id"`
	LoanID          string          `json:"loan_id"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	ProofURL        string          `json:"proof_url,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type DecisionDTO struct {
	Payment    PaymentDTO      `json:"payment"`
	Balance    decimal.Decimal `json:"remaining_balance"`
	LoanStatus string          `json:"loan_status"`
}

// RecordRepayment creates a pending repayment claim. Borrower only, active
// loans only; the balance is untouched until the lender approves.
func (u *Usecase) RecordRepayment(ctx context.Context, in RecordRepaymentInput) (*PaymentDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", loanDomain.ErrValidation)
	}
	if len(in.Proof) > 0 && u.proofs == nil {
		return nil, fmt.Errorf("%w: proof uploads are not configured", loanDomain.ErrValidation)
	}
	date := in.Date
	if date.IsZero() {
		date = u.now()
	}

	var dto *PaymentDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loanDomain.Loan) error {
		role, ok := l.RoleOf(in.ActorID)
		if !ok || role != loanDomain.RoleBorrower {
			return loanDomain.ErrUnauthorized
		}
		if l.Status != loanDomain.StatusActive {
			return loanDomain.ErrInvalidTransition
		}

		object := ""
		if len(in.Proof) > 0 {
			var err error
			object, err = u.proofs.Upload(ctx, l.LoanID, in.Proof, in.ProofContentType)
			if err != nil {
				return err
			}
		}

		p := &domain.Payment{
			PaymentID:   id.NewID32(),
			LoanID:      l.ID,
			Amount:      in.Amount,
			Date:        date,
			Type:        domain.TypeRepayment,
			Status:      domain.StatusPending,
			ProofObject: object,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		dto = u.toDTO(p, l.LoanID)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// Decide approves or rejects a pending repayment. Lender only, and only
// while the loan is active. Approval subtracts the amount from the
// remaining balance (clamped at zero) and completes the loan when nothing
// is left; rejection needs a reason and leaves the balance alone.
func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*DecisionDTO, error) {
	if in.Decision != DecisionApprove && in.Decision != DecisionReject {
		return nil, fmt.Errorf("%w: unknown decision %q", loanDomain.ErrValidation, in.Decision)
	}
	if in.Decision == DecisionReject && strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: rejection needs a reason", loanDomain.ErrValidation)
	}

	var dto *DecisionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Payments.GetByPaymentID(ctx, in.PaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if p.Type != domain.TypeRepayment {
			return fmt.Errorf("%w: only repayments carry approval decisions", loanDomain.ErrValidation)
		}
		if p.Status != domain.StatusPending {
			return domain.ErrNotPending
		}

		l, err := loanByNumericID(ctx, r, p.LoanID)
		if err != nil {
			return err
		}
		if role, ok := l.RoleOf(in.ActorID); !ok || role != loanDomain.RoleLender {
			return loanDomain.ErrUnauthorized
		}
		if l.Status != loanDomain.StatusActive {
			return loanDomain.ErrInvalidTransition
		}

		// The first read ran before the loan row was locked; a concurrent
		// decision may have settled this payment in the meantime.
		p, err = r.Payments.GetByPaymentID(ctx, p.PaymentID)
		if err != nil {
			return err
		}
		if p.Status != domain.StatusPending {
			return domain.ErrNotPending
		}

		now := u.now()
		if in.Decision == DecisionReject {
			p.Status = domain.StatusRejected
			p.RejectionReason = in.Reason
			if err := r.Payments.Save(ctx, p); err != nil {
				return err
			}
			dto = &DecisionDTO{Payment: *u.toDTO(p, l.LoanID), Balance: l.RemainingBalance, LoanStatus: string(l.Status)}
			return nil
		}

		p.Status = domain.StatusApproved
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}
		l.RemainingBalance = l.RemainingBalance.Sub(p.Amount)
		if !l.RemainingBalance.IsPositive() {
			l.RemainingBalance = decimal.Zero
			if err := loanDomain.ApplyTransition(l, loanDomain.EventComplete, loanDomain.RoleSystem, loanDomain.TransitionInput{Now: now}); err != nil {
				return err
			}
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = &DecisionDTO{Payment: *u.toDTO(p, l.LoanID), Balance: l.RemainingBalance, LoanStatus: string(l.Status)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// List returns the ledger for a loan, visible to both parties, with signed
// proof links resolved.
func (u *Usecase) List(ctx context.Context, loanID, actorID string) ([]PaymentDTO, error) {
	var out []PaymentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		if _, ok := l.RoleOf(actorID); !ok {
			return loanDomain.ErrUnauthorized
		}
		ps, err := r.Payments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		out = make([]PaymentDTO, 0, len(ps))
		for i := range ps {
			out = append(out, *u.toDTO(&ps[i], l.LoanID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) toDTO(p *domain.Payment, publicLoanID string) *PaymentDTO {
	proofURL := ""
	if p.ProofObject != "" && u.proofs != nil {
		if url, err := u.proofs.SignedURL(p.ProofObject); err == nil {
			proofURL = url
		}
	}
	return &PaymentDTO{
		PaymentID:       p.PaymentID,
		LoanID:          publicLoanID,
		Amount:          p.Amount,
		Date:            p.Date,
		Type:            string(p.Type),
		Status:          string(p.Status),
		ProofURL:        proofURL,
		RejectionReason: p.RejectionReason,
		CreatedAt:       p.CreatedAt,
	}
}

// loanByNumericID loads and row-locks the loan owning a ledger row inside
// the current transaction, so the balance read-modify-write below is
// serialized with any concurrent mutation of the same loan.
func loanByNumericID(ctx context.Context, r uow.Repos, numericID uint64) (*loanDomain.Loan, error) {
	l, err := r.Loans.GetByNumericIDForUpdate(ctx, numericID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}
