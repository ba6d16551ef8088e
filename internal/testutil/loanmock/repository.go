package loanmock

import (
	"context"
	"errors"

	domain "lendpact/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("loanmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository. Fill in
// the function fields a test needs; unfilled query methods error, unfilled
// write methods are no-ops.
type Repo struct {
	CreateFn                  func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn             func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn    func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByNumericIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetOpenDraftByPartiesFn   func(ctx context.Context, lenderID, borrowerID string) (*domain.Loan, error)
	ListByActorFn             func(ctx context.Context, actorID string) ([]domain.Loan, error)
	SaveFn                    func(ctx context.Context, l *domain.Loan) error
	SoftDeleteFn              func(ctx context.Context, l *domain.Loan, deletedBy string) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByNumericIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByNumericIDForUpdateFn != nil {
		return m.GetByNumericIDForUpdateFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetOpenDraftByParties(ctx context.Context, lenderID, borrowerID string) (*domain.Loan, error) {
	if m.GetOpenDraftByPartiesFn != nil {
		return m.GetOpenDraftByPartiesFn(ctx, lenderID, borrowerID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByActor(ctx context.Context, actorID string) ([]domain.Loan, error) {
	if m.ListByActorFn != nil {
		return m.ListByActorFn(ctx, actorID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) SoftDelete(ctx context.Context, l *domain.Loan, deletedBy string) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, l, deletedBy)
	}
	return nil
}
