package loan

import (
	"errors"
	"testing"
	"time"
)

func newLoan(s Status) *Loan {
	return &Loan{
		LoanID:     "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		LenderID:   "llllllllllllllllllllllllllllllll",
		BorrowerID: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Status:     s,
	}
}

func TestApplyTransition_LenderSign(t *testing.T) {
	l := newLoan(StatusDraft)
	now := date(2025, time.March, 1)

	if err := ApplyTransition(l, EventLenderSign, RoleLender, TransitionInput{Now: now, IP: "203.0.113.9"}); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if l.Status != StatusSent {
		t.Fatalf("status = %s", l.Status)
	}
	if l.LenderSignedAt == nil || !l.LenderSignedAt.Equal(now) {
		t.Fatalf("LenderSignedAt = %v", l.LenderSignedAt)
	}
	if l.LenderIP != "203.0.113.9" {
		t.Fatalf("LenderIP = %q", l.LenderIP)
	}
	if !l.StatusUpdatedAt.Equal(now) {
		t.Fatalf("StatusUpdatedAt = %v", l.StatusUpdatedAt)
	}
}

func TestApplyTransition_BorrowerSign_WrongActor(t *testing.T) {
	l := newLoan(StatusSent)
	err := ApplyTransition(l, EventBorrowerSign, RoleLender, TransitionInput{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if l.Status != StatusSent || l.BorrowerSignedAt != nil {
		t.Fatal("rejected transition must not mutate the loan")
	}
}

func TestApplyTransition_BorrowerSign(t *testing.T) {
	l := newLoan(StatusSent)
	now := date(2025, time.March, 2)
	if err := ApplyTransition(l, EventBorrowerSign, RoleBorrower, TransitionInput{Now: now, IP: "198.51.100.4"}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if l.Status != StatusApproved {
		t.Fatalf("status = %s, want approved", l.Status)
	}
	if l.BorrowerSignedAt == nil || !l.BorrowerSignedAt.Equal(now) {
		t.Fatalf("BorrowerSignedAt = %v", l.BorrowerSignedAt)
	}
	if l.BorrowerIP != "198.51.100.4" {
		t.Fatalf("BorrowerIP = %q", l.BorrowerIP)
	}
}

func TestApplyTransition_WrongSourceState(t *testing.T) {
	l := newLoan(StatusDraft)
	err := ApplyTransition(l, EventBorrowerSign, RoleBorrower, TransitionInput{})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestApplyTransition_RejectAndCancelRecordReason(t *testing.T) {
	l := newLoan(StatusSent)
	if err := ApplyTransition(l, EventBorrowerReject, RoleBorrower, TransitionInput{Reason: "terms too steep"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if l.Status != StatusCancelled || l.RejectionReason != "terms too steep" {
		t.Fatalf("status=%s reason=%q", l.Status, l.RejectionReason)
	}

	l = newLoan(StatusSent)
	if err := ApplyTransition(l, EventLenderCancel, RoleLender, TransitionInput{Reason: "changed my mind"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if l.Status != StatusCancelled || l.RejectionReason != "changed my mind" {
		t.Fatalf("status=%s reason=%q", l.Status, l.RejectionReason)
	}
}

func TestApplyTransition_FundingHandshake(t *testing.T) {
	l := newLoan(StatusApproved)

	if err := ApplyTransition(l, EventMarkFundsSent, RoleBorrower, TransitionInput{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("borrower must not mark funds sent: %v", err)
	}
	if err := ApplyTransition(l, EventMarkFundsSent, RoleLender, TransitionInput{}); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if l.Status != StatusFundingSent {
		t.Fatalf("status = %s", l.Status)
	}

	if err := ApplyTransition(l, EventConfirmFunds, RoleLender, TransitionInput{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("lender must not confirm receipt: %v", err)
	}
	if err := ApplyTransition(l, EventConfirmFunds, RoleBorrower, TransitionInput{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if l.Status != StatusActive {
		t.Fatalf("status = %s", l.Status)
	}
}

func TestApplyTransition_ForgiveAndComplete(t *testing.T) {
	l := newLoan(StatusActive)
	if err := ApplyTransition(l, EventForgive, RoleBorrower, TransitionInput{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("borrower must not forgive: %v", err)
	}
	if err := ApplyTransition(l, EventForgive, RoleLender, TransitionInput{}); err != nil {
		t.Fatalf("forgive: %v", err)
	}
	if l.Status != StatusForgiven {
		t.Fatalf("status = %s", l.Status)
	}

	l = newLoan(StatusActive)
	if err := ApplyTransition(l, EventComplete, RoleLender, TransitionInput{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("completion is system-only: %v", err)
	}
	if err := ApplyTransition(l, EventComplete, RoleSystem, TransitionInput{}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if l.Status != StatusCompleted {
		t.Fatalf("status = %s", l.Status)
	}
}

func TestApplyTransition_TerminalStatesAreDeadEnds(t *testing.T) {
	events := []Event{
		EventLenderSign, EventBorrowerSign, EventBorrowerReject, EventLenderCancel,
		EventMarkFundsSent, EventConfirmFunds, EventForgive, EventComplete,
	}
	for _, s := range []Status{StatusCompleted, StatusForgiven, StatusCancelled} {
		for _, ev := range events {
			l := newLoan(s)
			for _, role := range []Role{RoleLender, RoleBorrower, RoleSystem} {
				if err := ApplyTransition(l, ev, role, TransitionInput{}); !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("%s/%s/%s: want ErrInvalidTransition, got %v", s, ev, role, err)
				}
			}
		}
	}
}

func TestApplyTransition_UnknownEvent(t *testing.T) {
	l := newLoan(StatusDraft)
	if err := ApplyTransition(l, Event("explode"), RoleLender, TransitionInput{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}
