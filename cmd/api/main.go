package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "lendpact/internal/adapter/http"
	mw "lendpact/internal/adapter/middleware"
	"lendpact/internal/adapter/repository/mysql"
	"lendpact/internal/config"
	loanDomain "lendpact/internal/domain/loan"
	"lendpact/internal/infrastructure/cache"
	"lendpact/internal/infrastructure/db"
	"lendpact/internal/infrastructure/objstore"
	accrualUC "lendpact/internal/usecase/accrual"
	"lendpact/internal/usecase/agreement"
	loanUC "lendpact/internal/usecase/loan"
	paymentUC "lendpact/internal/usecase/payment"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	var proofs paymentUC.ProofStore
	if cfg.GCSBucket != "" {
		store, err := objstore.NewGCSStore(context.Background(), cfg.GCSBucket)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		proofs = store
	} else {
		log.Println("GCS_BUCKET not set, proof uploads disabled")
	}

	loanRepo := mysql.NewLoanRepository(gdb)
	uow := mysql.NewGormUoW(gdb)
	docs := agreement.NewGenerator()

	loanUsecase := loanUC.NewUsecase(loanRepo, uow, docs)
	paymentUsecase := paymentUC.NewUsecase(uow, proofs)
	runner := accrualUC.NewRunner(uow, cache.NewRedisLocker(rdb))

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loanUsecase, runner)
	ph := httpadp.NewPaymentHandler(paymentUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	e.GET("/health", h.Health)

	e.POST("/loans", lh.CreateLoan)
	e.GET("/loans", lh.ListLoans)
	e.GET("/loans/:loan_id", lh.GetLoan)
	e.DELETE("/loans/:loan_id", lh.DeleteLoan)

	e.POST("/loans/:loan_id/sign", lh.Transition(loanDomain.EventLenderSign))
	e.POST("/loans/:loan_id/accept", lh.Transition(loanDomain.EventBorrowerSign))
	e.POST("/loans/:loan_id/reject", lh.Transition(loanDomain.EventBorrowerReject))
	e.POST("/loans/:loan_id/cancel", lh.Transition(loanDomain.EventLenderCancel))
	e.POST("/loans/:loan_id/fund", lh.Transition(loanDomain.EventMarkFundsSent))
	e.POST("/loans/:loan_id/confirm-funds", lh.Transition(loanDomain.EventConfirmFunds))
	e.POST("/loans/:loan_id/forgive", lh.Transition(loanDomain.EventForgive))
	e.POST("/loans/:loan_id/catchup", lh.CatchUp)

	e.GET("/loans/:loan_id/payments", ph.ListPayments)
	e.POST("/loans/:loan_id/payments", ph.RecordRepayment)
	e.POST("/payments/:payment_id/decision", ph.Decide)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
