package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	// CreateBatch inserts synthesized charge rows in one statement.
	CreateBatch(ctx context.Context, ps []*Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	// ListByLoanID returns all non-deleted entries for a loan (numeric id),
	// oldest first.
	ListByLoanID(ctx context.Context, loanID uint64) ([]Payment, error)
	Save(ctx context.Context, p *Payment) error
}
