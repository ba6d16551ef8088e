package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	paymentDomain "lendpact/internal/domain/payment"
	"lendpact/pkg/id"
)

type paymentSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	PaymentID       string         `gorm:"size:32;column:payment_id"`
	LoanID          uint64         `gorm:"column:loan_id"`
	Amount          string         `gorm:"column:amount"`
	Date            time.Time      `gorm:"column:date"`
	Type            string         `gorm:"type:text;column:type"`
	Status          string         `gorm:"type:text;column:status"`
	ProofObject     string         `gorm:"column:proof_object"`
	RejectionReason string         `gorm:"column:rejection_reason"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (paymentSQLite) TableName() string { return "payments" }

func openPaymentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	if err := db.AutoMigrate(&paymentSQLite{}); err != nil {
		t.Fatalf("auto-migrate payments: %v", err)
	}
	return db
}

func makePayment(loanID uint64, t paymentDomain.Type, day time.Time) *paymentDomain.Payment {
	return &paymentDomain.Payment{
		PaymentID: id.NewID32(),
		LoanID:    loanID,
		Amount:    decimal.RequireFromString("150.25"),
		Date:      day,
		Type:      t,
		Status:    paymentDomain.StatusPending,
	}
}

func TestPaymentCreateAndGet(t *testing.T) {
	db := openPaymentTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	p := makePayment(7, paymentDomain.TypeRepayment, time.Now().UTC())
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("Create did not set auto-increment ID")
	}

	got, err := repo.GetByPaymentID(ctx, p.PaymentID)
	if err != nil {
		t.Fatalf("GetByPaymentID: %v", err)
	}
	if got.LoanID != 7 || got.Type != paymentDomain.TypeRepayment || !got.Amount.Equal(p.Amount) {
		t.Errorf("unexpected payment: %+v", got)
	}
}

func TestPaymentGet_NotFound(t *testing.T) {
	db := openPaymentTestDB(t)
	repo := NewPaymentRepository(db)

	_, err := repo.GetByPaymentID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestPaymentSave(t *testing.T) {
	db := openPaymentTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	p := makePayment(7, paymentDomain.TypeRepayment, time.Now().UTC())
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p.Status = paymentDomain.StatusRejected
	p.RejectionReason = "no transfer received"
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByPaymentID(ctx, p.PaymentID)
	if err != nil {
		t.Fatalf("GetByPaymentID: %v", err)
	}
	if got.Status != paymentDomain.StatusRejected || got.RejectionReason != "no transfer received" {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestPaymentCreateBatchAndListOrdering(t *testing.T) {
	db := openPaymentTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC) }

	batch := []*paymentDomain.Payment{
		makePayment(7, paymentDomain.TypeLateFee, day(20)),
		makePayment(7, paymentDomain.TypeInterest, day(10)),
		makePayment(7, paymentDomain.TypeRepayment, day(15)),
	}
	if err := repo.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	// another loan's row must not leak into the listing
	if err := repo.Create(ctx, makePayment(8, paymentDomain.TypeFunding, day(1))); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByLoanID(ctx, 7)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Fatalf("not ordered by date: %v then %v", got[i-1].Date, got[i].Date)
		}
	}
}

func TestPaymentCreateBatch_Empty(t *testing.T) {
	db := openPaymentTestDB(t)
	repo := NewPaymentRepository(db)

	if err := repo.CreateBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch must be a no-op: %v", err)
	}
}
