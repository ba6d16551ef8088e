package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("payment not found")
	ErrNotPending = errors.New("payment is not pending")
)

type Type string

const (
	TypeFunding   Type = "funding"
	TypeRepayment Type = "repayment"
	TypeLateFee   Type = "late_fee"
	TypeInterest  Type = "interest"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Payment is a ledger entry against a loan. System-generated late_fee and
// interest rows are inserted already approved; repayments start pending and
// only touch the balance once the lender approves them.
type Payment struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PaymentID string `gorm:"column:payment_id;type:char(32);not null;uniqueIndex:ux_payments_payment_id_active" json:"payment_id"`
	// FK to loans.id (numeric)
	LoanID uint64 `gorm:"column:loan_id;not null;index" json:"-"`

	Amount decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	// Date is the business date of the event, not the insert time.
	Date   time.Time      `gorm:"column:date;type:date;not null" json:"date"`
	Type   Type           `gorm:"type:enum('funding','repayment','late_fee','interest')" json:"type"`
	Status ApprovalStatus `gorm:"type:enum('pending','approved','rejected');default:'pending'" json:"status"`

	ProofObject     string `gorm:"column:proof_object;type:text" json:"proof_object,omitempty"`
	RejectionReason string `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Payment) TableName() string { return "payments" }

// CountByType tallies entries of one type in a snapshot, the accrual
// engine's deduplication input. Rejected rows are not counted.
func CountByType(list []Payment, t Type) int {
	n := 0
	for i := range list {
		if list[i].Type == t && list[i].Status != StatusRejected {
			n++
		}
	}
	return n
}
