package http

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	paymentUC "lendpact/internal/usecase/payment"
)

// proof images are capped well below the request size limit
const maxProofBytes = 8 << 20

type PaymentHandler struct{ uc *paymentUC.Usecase }

func NewPaymentHandler(uc *paymentUC.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

// RecordRepayment accepts multipart form data: amount (required), date
// (optional YYYY-MM-DD) and an optional proof file.
func (h *PaymentHandler) RecordRepayment(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid Ax-Actor-Id"})
	}

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil || !amount.IsPositive() {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "amount", Message: "must be a positive decimal"}},
		})
	}

	in := paymentUC.RecordRepaymentInput{
		LoanID:  c.Param("loan_id"),
		ActorID: actor,
		Amount:  amount,
	}
	if v := c.FormValue("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []FieldError{{Field: "date", Message: "must be a date formatted 2006-01-02"}},
			})
		}
		in.Date = d
	}

	if fh, err := c.FormFile("proof"); err == nil {
		if fh.Size > maxProofBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "proof too large"})
		}
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable proof upload"})
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxProofBytes))
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable proof upload"})
		}
		in.Proof = data
		in.ProofContentType = fh.Header.Get("Content-Type")
	}

	dto, err := h.uc.RecordRepayment(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type decideReq struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason"`
}

func (h *PaymentHandler) Decide(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid Ax-Actor-Id"})
	}
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Decide(c.Request().Context(), paymentUC.DecideInput{
		PaymentID: c.Param("payment_id"),
		ActorID:   actor,
		Decision:  paymentUC.Decision(req.Decision),
		Reason:    req.Reason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid Ax-Actor-Id"})
	}
	dtos, err := h.uc.List(c.Request().Context(), c.Param("loan_id"), actor)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
