package loan

import (
	"time"

	"github.com/shopspring/decimal"

	domain "lendpact/internal/domain/loan"
)

type CreateLoanInput struct {
	LenderID   string
	BorrowerID string

	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	InterestType string
	// RepaymentSchedule is accepted as free text and translated once into
	// the closed cadence enum.
	RepaymentSchedule string
	LateFee           decimal.Decimal
	MaturityDate      *time.Time
}

type TransitionInput struct {
	LoanID  string
	Event   domain.Event
	ActorID string
	IP      string
	Reason  string
}

type LoanDTO struct {
	LoanID     string `json:"loan_id"`
	LenderID   string `json:"lender_id"`
	BorrowerID string `json:"borrower_id,omitempty"`

	Principal        decimal.Decimal `json:"principal"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	InterestType     string          `json:"interest_type"`
	Cadence          string          `json:"repayment_schedule"`
	LateFee          decimal.Decimal `json:"late_fee"`
	MaturityDate     *time.Time      `json:"maturity_date,omitempty"`
	Status           string          `json:"status"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`

	LenderSignedAt   *time.Time `json:"lender_signed_at,omitempty"`
	BorrowerSignedAt *time.Time `json:"borrower_signed_at,omitempty"`
	AgreementText    string     `json:"agreement_text,omitempty"`
	ReleaseText      string     `json:"release_text,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:           l.LoanID,
		LenderID:         l.LenderID,
		BorrowerID:       l.BorrowerID,
		Principal:        l.Principal,
		InterestRate:     l.InterestRate,
		InterestType:     string(l.InterestType),
		Cadence:          string(l.Cadence),
		LateFee:          l.LateFee,
		MaturityDate:     l.MaturityDate,
		Status:           string(l.Status),
		RemainingBalance: l.RemainingBalance,
		LenderSignedAt:   l.LenderSignedAt,
		BorrowerSignedAt: l.BorrowerSignedAt,
		AgreementText:    l.AgreementText,
		ReleaseText:      l.ReleaseText,
		RejectionReason:  l.RejectionReason,
		CreatedAt:        l.CreatedAt,
	}
}
