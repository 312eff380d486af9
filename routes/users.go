package routes

import (
	"net/http"
	"time"

	"github.com/TheSiteshKumar/parlegg/controllers/auth"
	"github.com/TheSiteshKumar/parlegg/controllers/users"
	"github.com/TheSiteshKumar/parlegg/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers all user-facing routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Login/register limiter: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Session limiter: 120 reads, 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler)))).Methods(http.MethodPost)
	api.Handle("/logout-all", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutAllHandler)))).Methods(http.MethodPost)

	// Account
	api.Handle("/users/me", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.InfoHandler)))).Methods(http.MethodGet)
	api.Handle("/users/change-password", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler)))).Methods(http.MethodPost)
	api.Handle("/users/profile", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UpdateProfileHandler)))).Methods(http.MethodPut)
	api.Handle("/users/profile", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.DeleteProfileHandler)))).Methods(http.MethodDelete)

	// Wallet
	api.Handle("/users/wallet", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetWalletHandler)))).Methods(http.MethodGet)

	// Fund requests
	api.Handle("/users/funds", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateAddFundRequestHandler)))).Methods(http.MethodPost)
	api.Handle("/users/funds", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListAddFundRequestsHandler)))).Methods(http.MethodGet)

	// Plans with per-user purchase counts
	api.Handle("/users/plans", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListPlansWithCountsHandler)))).Methods(http.MethodGet)

	// Investments
	api.Handle("/users/investments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateInvestmentHandler)))).Methods(http.MethodPost)
	api.Handle("/users/investments", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListInvestmentsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/investments/{id}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetInvestmentHandler)))).Methods(http.MethodGet)

	// Bank details
	api.Handle("/users/bank-details", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.SaveBankDetailHandler)))).Methods(http.MethodPost)
	api.Handle("/users/bank-details", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetBankDetailHandler)))).Methods(http.MethodGet)
	api.Handle("/users/upi", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UpdateUpiHandler)))).Methods(http.MethodPut)

	// Withdrawals
	api.Handle("/users/withdrawals", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CreateWithdrawalHandler)))).Methods(http.MethodPost)
	api.Handle("/users/withdrawals", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListWithdrawalsHandler)))).Methods(http.MethodGet)

	// Referrals
	api.Handle("/users/referral/code", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetReferralCodeHandler)))).Methods(http.MethodGet)
	api.Handle("/users/referral/stats", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetReferralStatsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/referral/list", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListReferralsHandler)))).Methods(http.MethodGet)
	api.Handle("/users/referral/rewards", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListReferralRewardsHandler)))).Methods(http.MethodGet)

	// Transaction history
	api.Handle("/users/transactions", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionHistory)))).Methods(http.MethodGet)
}
