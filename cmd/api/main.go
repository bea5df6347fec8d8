package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "watershed-backend/internal/adapter/http"
	"watershed-backend/internal/adapter/middleware"
	"watershed-backend/internal/adapter/repository/mysql"
	"watershed-backend/internal/config"
	"watershed-backend/internal/infrastructure/cache"
	"watershed-backend/internal/infrastructure/db"
	accountUC "watershed-backend/internal/usecase/account"
	loanUC "watershed-backend/internal/usecase/loan"
	paymentUC "watershed-backend/internal/usecase/payment"
	refinanceUC "watershed-backend/internal/usecase/refinance"
)

func main() {
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

	accountRepo := mysql.NewAccountRepository(gdb)
	loanRepo := mysql.NewLoanRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	accounts := accountUC.NewUsecase(accountRepo, uow)
	loans := loanUC.NewUsecase(loanRepo, uow, loanUC.Policy{
		SharePrice:          cfg.SharePrice,
		MinContribution:     cfg.MinContribution,
		FundingDeadlineDays: cfg.FundingDeadlineDays,
		DefaultGraceDays:    cfg.DefaultGraceDays,
	})
	payments := paymentUC.NewUsecase(uow)
	refinances := refinanceUC.NewUsecase(loanRepo, uow, refinanceUC.Policy{
		MinBalance: cfg.RefinanceMinBalance,
		FeePct:     cfg.RefinanceFeePct,
		MinFee:     cfg.RefinanceMinFee,
		Terms:      cfg.RefinanceTerms,
	})

	h := httpadp.NewHandler()
	accountH := httpadp.NewAccountHandler(accounts)
	loanH := httpadp.NewLoanHandler(loans)
	paymentH := httpadp.NewPaymentHandler(payments)
	refinanceH := httpadp.NewRefinanceHandler(refinances)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	e.GET("/health", h.Health)

	e.POST("/accounts", accountH.OpenAccount)
	e.GET("/accounts/:user_id", accountH.GetAccount)
	e.POST("/accounts/:user_id/credit", accountH.Credit)
	e.POST("/accounts/:user_id/debit", accountH.Debit)
	e.GET("/accounts/:user_id/transactions", accountH.ListTransactions)
	e.GET("/accounts/:user_id/reconcile", accountH.Reconcile)

	e.POST("/loans", loanH.CreateLoan)
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.POST("/loans/:loan_id/fund", loanH.FundLoan)
	e.POST("/loans/:loan_id/default", loanH.MarkDefaulted)
	e.POST("/loans/:loan_id/payments", paymentH.ApplyPayment)
	e.GET("/loans/:loan_id/refinance/quote", refinanceH.Quote)
	e.POST("/loans/:loan_id/refinance", refinanceH.Refinance)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
