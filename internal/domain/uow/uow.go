package uow

import (
	"context"

	"lendpact/internal/domain/loan"
	"lendpact/internal/domain/payment"
)

type Repos struct {
	Loans    loan.Repository
	Payments payment.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn inside one database transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in. Balance
	// read-modify-write goes through here so concurrent mutations of one
	// loan are serialized by the database.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
