package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the rest of the
	// surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// GetByNumericIDForUpdate does the same keyed by the internal id, for
	// callers that start from a ledger row.
	GetByNumericIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	// GetOpenDraftByParties returns the most recent draft between a
	// lender/borrower pair, or gorm.ErrRecordNotFound.
	GetOpenDraftByParties(ctx context.Context, lenderID, borrowerID string) (*Loan, error)
	ListByActor(ctx context.Context, actorID string) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
	// SoftDelete marks the loan deleted and records who deleted it.
	SoftDelete(ctx context.Context, l *Loan, deletedBy string) error
}
