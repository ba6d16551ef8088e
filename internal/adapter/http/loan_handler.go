package http

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	loanDomain "lendpact/internal/domain/loan"
	accrualUC "lendpact/internal/usecase/accrual"
	loanUC "lendpact/internal/usecase/loan"
)

type LoanHandler struct {
	uc     *loanUC.Usecase
	runner *accrualUC.Runner
}

func NewLoanHandler(uc *loanUC.Usecase, runner *accrualUC.Runner) *LoanHandler {
	return &LoanHandler{uc: uc, runner: runner}
}

type createLoanReq struct {
	BorrowerID        string  `json:"borrower_id"        validate:"omitempty,hex32"`
	Principal         float64 `json:"principal"          validate:"required,gt=0,dec2"`
	InterestRate      float64 `json:"interest_rate"      validate:"gte=0,lte=15,dec2"`
	InterestType      string  `json:"interest_type"      validate:"omitempty,oneof=fixed periodic"`
	RepaymentSchedule string  `json:"repayment_schedule" validate:"required"`
	LateFee           float64 `json:"late_fee"           validate:"gte=0,dec2"`
	MaturityDate      string  `json:"maturity_date"      validate:"omitempty,datetime=2006-01-02"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid Ax-Actor-Id"})
	}
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := loanUC.CreateLoanInput{
		LenderID:          actor,
		BorrowerID:        req.BorrowerID,
		Principal:         decimal.NewFromFloat(req.Principal),
		InterestRate:      decimal.NewFromFloat(req.InterestRate),
		InterestType:      req.InterestType,
		RepaymentSchedule: req.RepaymentSchedule,
		LateFee:           decimal.NewFromFloat(req.LateFee),
	}
	if req.MaturityDate != "" {
		d, err := time.Parse("2006-01-02", req.MaturityDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid maturity_date"})
		}
		in.MaturityDate = &d
	}

	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// GetLoan runs a best-effort catch-up before returning the loan, so the
// view always reflects charges owed up to now. A failed catch-up (lock held
// elsewhere, redis down) does not fail the read.
func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if h.runner != nil {
		if _, err := h.runner.CatchUp(c.Request().Context(), loanID); err != nil {
			log.Printf("catch-up on view of %s: %v", loanID, err)
		}
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid Ax-Actor-Id"})
	}
	dtos, err := h.uc.List(c.Request().Context(), actor)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid Ax-Actor-Id"})
	}
	if err := h.uc.Delete(c.Request().Context(), c.Param("loan_id"), actor); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type transitionReq struct {
	Reason string `json:"reason"`
}

// Transition returns the handler for one lifecycle event; the route decides
// the event, the state machine decides legality.
func (h *LoanHandler) Transition(ev loanDomain.Event) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := actorID(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid Ax-Actor-Id"})
		}
		var req transitionReq
		// body is optional for most events
		_ = c.Bind(&req)

		dto, err := h.uc.Transition(c.Request().Context(), loanUC.TransitionInput{
			LoanID:  c.Param("loan_id"),
			Event:   ev,
			ActorID: actor,
			IP:      c.RealIP(),
			Reason:  req.Reason,
		})
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(http.StatusOK, dto)
	}
}

func (h *LoanHandler) CatchUp(c echo.Context) error {
	res, err := h.runner.CatchUp(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
