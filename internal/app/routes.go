package app

import (
	"net/http"

	"github.com/godwinide/teslastockinvestment/internal/handler"
	"github.com/godwinide/teslastockinvestment/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.errorHandler, app.Logger, app.DB.User(), &app.Config)

	healthHandler := handler.NewHealthCheckHandler(app.errorHandler)

	authHandler := handler.NewAuthHandler(&handler.AuthHandler{
		UserRepo:    app.DB.User(),
		AccountRepo: app.DB.Account(),
		DB:          app.DB,
		Cache:       app.Cache,
		Helper:      app.helper,
		Mailer:      app.Mailer,
		ErrHandler:  app.errorHandler,
		Config:      &app.Config,
	})

	dashboardHandler := handler.NewDashboardHandler(&handler.DashboardHandler{
		AccountRepo: app.DB.Account(),
		ErrHandler:  app.errorHandler,
	})

	investmentHandler := handler.NewInvestmentHandler(&handler.InvestmentHandler{
		Engine:      app.Engine,
		AccountRepo: app.DB.Account(),
		TradeRepo:   app.DB.TradeHistory(),
		Kafka:       app.Kafka,
		ErrHandler:  app.errorHandler,
	})

	depositHandler := handler.NewDepositHandler(&handler.DepositHandler{
		Engine:      app.Engine,
		AccountRepo: app.DB.Account(),
		Uploader:    app.FileUploader,
		Kafka:       app.Kafka,
		ErrHandler:  app.errorHandler,
	})

	withdrawalHandler := handler.NewWithdrawalHandler(&handler.WithdrawalHandler{
		Engine:      app.Engine,
		AccountRepo: app.DB.Account(),
		Kafka:       app.Kafka,
		ErrHandler:  app.errorHandler,
	})

	historyHandler := handler.NewAccountHistoryHandler(&handler.AccountHistoryHandler{
		AccountRepo:    app.DB.Account(),
		DepositRepo:    app.DB.Deposit(),
		WithdrawalRepo: app.DB.Withdrawal(),
		OtherRepo:      app.DB.OtherTransaction(),
		ErrHandler:     app.errorHandler,
	})

	kycHandler := handler.NewKycHandler(&handler.KycHandler{
		UserRepo:    app.DB.User(),
		AccountRepo: app.DB.Account(),
		Uploader:    app.FileUploader,
		Kafka:       app.Kafka,
		ErrHandler:  app.errorHandler,
	})

	mux.HandleFunc("GET /status", healthHandler.HandleHealthCheck)

	mux.HandleFunc("POST /auth/register", authHandler.HandleAuthRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleAuthLogin)
	mux.HandleFunc("POST /auth/forgot-password", authHandler.HandleForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", authHandler.HandleResetPassword)

	// everything under /dashboard requires a logged in user
	requireAuth := func(h http.HandlerFunc) http.Handler {
		return middlewareRepo.RequireAuthenticatedUser(h)
	}

	mux.Handle("GET /dashboard", requireAuth(dashboardHandler.HandleDashboard))
	mux.Handle("POST /dashboard/buy-plan", requireAuth(investmentHandler.HandleBuyPlan))
	mux.Handle("GET /dashboard/trading-history", requireAuth(investmentHandler.HandleTradingHistory))
	mux.Handle("POST /dashboard/deposits", requireAuth(depositHandler.HandleDepositRequest))
	mux.Handle("POST /dashboard/payment", requireAuth(depositHandler.HandleDepositProof))
	mux.Handle("POST /dashboard/withdrawals", requireAuth(withdrawalHandler.HandleWithdrawal))
	mux.Handle("GET /dashboard/account-history", requireAuth(historyHandler.HandleAccountHistory))
	mux.Handle("POST /dashboard/submit-kyc", requireAuth(kycHandler.HandleSubmitKyc))

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(middlewareRepo.Authenticate(mux)))
}
