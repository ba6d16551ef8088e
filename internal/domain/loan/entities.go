package loan

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrUnauthorized      = errors.New("actor not allowed to perform this transition")
	ErrInvalidTransition = errors.New("transition not legal from current status")
	ErrValidation        = errors.New("invalid loan terms")
)

type Status string

const (
	StatusDraft       Status = "draft"
	StatusSent        Status = "sent"
	StatusApproved    Status = "approved"
	StatusFundingSent Status = "funding_sent"
	StatusActive      Status = "active"
	StatusCompleted   Status = "completed"
	StatusForgiven    Status = "forgiven"
	StatusCancelled   Status = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusForgiven || s == StatusCancelled
}

type InterestType string

const (
	InterestFixed    InterestType = "fixed"
	InterestPeriodic InterestType = "periodic"
)

type Cadence string

const (
	CadenceMonthly  Cadence = "monthly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceLumpSum  Cadence = "lump_sum"
)

// ParseCadence translates a free-text repayment schedule into the closed
// enum. Legacy values are matched loosely: anything mentioning "month" is
// monthly, anything mentioning "bi" is biweekly, everything else is a lump
// sum at maturity. The "month" check runs first so e.g. "bimonthly" lands on
// monthly, matching how the legacy data was read.
func ParseCadence(s string) Cadence {
	t := strings.ToLower(s)
	switch {
	case strings.Contains(t, "month"):
		return CadenceMonthly
	case strings.Contains(t, "bi"):
		return CadenceBiweekly
	default:
		return CadenceLumpSum
	}
}

type Loan struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID string `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`

	LenderID   string `gorm:"size:32;index:idx_loans_lender_active" json:"lender_id"`
	BorrowerID string `gorm:"size:32;index:idx_loans_borrower_active" json:"borrower_id"`

	Principal    decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	InterestRate decimal.Decimal `gorm:"type:decimal(6,2)" json:"interest_rate"`
	InterestType InterestType    `gorm:"type:enum('fixed','periodic');default:'periodic'" json:"interest_type"`
	Cadence      Cadence         `gorm:"column:repayment_schedule;type:enum('monthly','biweekly','lump_sum')" json:"repayment_schedule"`
	LateFee      decimal.Decimal `gorm:"type:decimal(18,2)" json:"late_fee"`
	MaturityDate *time.Time      `gorm:"type:date" json:"maturity_date,omitempty"`

	Status Status `gorm:"type:enum('draft','sent','approved','funding_sent','active','completed','forgiven','cancelled');default:'draft'" json:"status"`

	// RemainingBalance starts at Principal and is only moved by ledger
	// mutations: system charges add, approved repayments subtract,
	// forgiveness leaves it untouched. Never negative.
	RemainingBalance decimal.Decimal `gorm:"type:decimal(18,2)" json:"remaining_balance"`

	LenderSignedAt   *time.Time `json:"lender_signed_at,omitempty"`
	BorrowerSignedAt *time.Time `json:"borrower_signed_at,omitempty"`
	LenderIP         string     `gorm:"size:45" json:"-"`
	BorrowerIP       string     `gorm:"size:45" json:"-"`

	AgreementText   string `gorm:"type:text" json:"-"`
	ReleaseText     string `gorm:"type:text" json:"-"`
	RejectionReason string `gorm:"type:text" json:"rejection_reason,omitempty"`

	StatusUpdatedAt time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy       string         `gorm:"size:32" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// RoleOf resolves which side of the loan an actor is on.
func (l *Loan) RoleOf(actorID string) (Role, bool) {
	switch actorID {
	case "":
		return "", false
	case l.LenderID:
		return RoleLender, true
	case l.BorrowerID:
		return RoleBorrower, true
	}
	return "", false
}
