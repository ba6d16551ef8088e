package loan

import "time"

type Role string

const (
	RoleLender   Role = "lender"
	RoleBorrower Role = "borrower"
	// RoleSystem is used for transitions the service applies on its own,
	// e.g. completion when an approved repayment zeroes the balance.
	RoleSystem Role = "system"
)

type Event string

const (
	EventLenderSign     Event = "lender_sign"
	EventBorrowerSign   Event = "borrower_sign"
	EventBorrowerReject Event = "borrower_reject"
	EventLenderCancel   Event = "lender_cancel"
	EventMarkFundsSent  Event = "mark_funds_sent"
	EventConfirmFunds   Event = "confirm_funds"
	EventForgive        Event = "forgive"
	EventComplete       Event = "complete"
)

// TransitionInput carries the side-effect payload a transition may record.
type TransitionInput struct {
	Now    time.Time
	IP     string
	Reason string
}

type transition struct {
	from  Status
	actor Role
	to    Status
	apply func(l *Loan, in TransitionInput)
}

// The full lifecycle:
//
//	draft -> sent -> approved -> funding_sent -> active -> {completed, forgiven}
//
// with cancellation reachable from sent (either party). Invalid source
// states are rejected explicitly rather than silently ignored, so callers
// can tell "no-op" apart from "not allowed".
var transitions = map[Event]transition{
	EventLenderSign: {
		from: StatusDraft, actor: RoleLender, to: StatusSent,
		apply: func(l *Loan, in TransitionInput) {
			t := in.Now
			l.LenderSignedAt = &t
			l.LenderIP = in.IP
		},
	},
	EventBorrowerSign: {
		from: StatusSent, actor: RoleBorrower, to: StatusApproved,
		apply: func(l *Loan, in TransitionInput) {
			t := in.Now
			l.BorrowerSignedAt = &t
			l.BorrowerIP = in.IP
		},
	},
	EventBorrowerReject: {
		from: StatusSent, actor: RoleBorrower, to: StatusCancelled,
		apply: func(l *Loan, in TransitionInput) { l.RejectionReason = in.Reason },
	},
	EventLenderCancel: {
		from: StatusSent, actor: RoleLender, to: StatusCancelled,
		apply: func(l *Loan, in TransitionInput) { l.RejectionReason = in.Reason },
	},
	EventMarkFundsSent: {
		from: StatusApproved, actor: RoleLender, to: StatusFundingSent,
	},
	EventConfirmFunds: {
		from: StatusFundingSent, actor: RoleBorrower, to: StatusActive,
	},
	EventForgive: {
		from: StatusActive, actor: RoleLender, to: StatusForgiven,
	},
	EventComplete: {
		from: StatusActive, actor: RoleSystem, to: StatusCompleted,
	},
}

// ApplyTransition mutates l in place when the event is legal from the
// current status and the actor holds the required role. The status source
// check runs before the actor check so that a stale caller gets
// ErrInvalidTransition rather than leaking who may act.
func ApplyTransition(l *Loan, ev Event, role Role, in TransitionInput) error {
	tr, ok := transitions[ev]
	if !ok {
		return ErrInvalidTransition
	}
	if l.Status != tr.from {
		return ErrInvalidTransition
	}
	if role != tr.actor {
		return ErrUnauthorized
	}
	if in.Now.IsZero() {
		in.Now = time.Now().UTC()
	}
	if tr.apply != nil {
		tr.apply(l, in)
	}
	l.Status = tr.to
	l.StatusUpdatedAt = in.Now
	return nil
}
