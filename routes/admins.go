package routes

import (
	"net/http"
	"time"

	"github.com/TheSiteshKumar/parlegg/controllers/admins"
	"github.com/TheSiteshKumar/parlegg/middleware"

	"github.com/gorilla/mux"
)

func SetAdminRoutes(api *mux.Router) {
	// Rate limiter for admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	// Public admin routes
	api.Handle("/admins/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.Login))).Methods(http.MethodPost)

	// Protected admin routes
	adminRouter := api.PathPrefix("/admins").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	adminRouter.HandleFunc("/dashboard", admins.GetDashboardStats).Methods(http.MethodGet)
	adminRouter.HandleFunc("/info", admins.GetAdminInfo).Methods(http.MethodGet)

	adminRouter.HandleFunc("/profile", admins.GetAdminProfile).Methods(http.MethodGet)
	adminRouter.HandleFunc("/profile", admins.UpdateAdminProfile).Methods(http.MethodPut)
	adminRouter.HandleFunc("/password", admins.UpdateAdminPassword).Methods(http.MethodPut)

	adminRouter.HandleFunc("/users", admins.GetUsers).Methods(http.MethodGet)
	adminRouter.HandleFunc("/users/{id}", admins.GetUserDetail).Methods(http.MethodGet)
	adminRouter.HandleFunc("/users/{id}", admins.UpdateUser).Methods(http.MethodPut)
	adminRouter.HandleFunc("/users/{id}/password", admins.UpdateUserPassword).Methods(http.MethodPut)
	adminRouter.HandleFunc("/users/{id}/purchase-limit/reset", admins.ResetPurchaseLimit).Methods(http.MethodPost)

	adminRouter.HandleFunc("/plans", admins.ListPlansHandler).Methods(http.MethodGet)
	adminRouter.HandleFunc("/plans", admins.CreatePlanHandler).Methods(http.MethodPost)
	adminRouter.HandleFunc("/plans/{id}", admins.GetPlanHandler).Methods(http.MethodGet)
	adminRouter.HandleFunc("/plans/{id}", admins.UpdatePlanHandler).Methods(http.MethodPut)
	adminRouter.HandleFunc("/plans/{id}", admins.DeletePlanHandler).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/plans/{id}/image", admins.UploadPlanImageHandler).Methods(http.MethodPut)

	adminRouter.HandleFunc("/investments", admins.GetInvestments).Methods(http.MethodGet)
	adminRouter.HandleFunc("/investments/{id}", admins.GetInvestmentDetail).Methods(http.MethodGet)
	adminRouter.HandleFunc("/investments/{id}/status", admins.UpdateInvestmentStatus).Methods(http.MethodPut)

	adminRouter.HandleFunc("/withdrawals", admins.GetWithdrawals).Methods(http.MethodGet)
	adminRouter.HandleFunc("/withdrawals/{id}/approve", admins.ApproveWithdrawal).Methods(http.MethodPost)
	adminRouter.HandleFunc("/withdrawals/{id}/reject", admins.RejectWithdrawal).Methods(http.MethodPost)

	adminRouter.HandleFunc("/fund-requests", admins.GetAddFundRequests).Methods(http.MethodGet)
	adminRouter.HandleFunc("/fund-requests/{id}/approve", admins.ApproveAddFundRequest).Methods(http.MethodPost)
	adminRouter.HandleFunc("/fund-requests/{id}/reject", admins.RejectAddFundRequest).Methods(http.MethodPost)

	adminRouter.HandleFunc("/transactions", admins.GetTransactions).Methods(http.MethodGet)

	adminRouter.HandleFunc("/settings", admins.GetSettingsHandler).Methods(http.MethodGet)
	adminRouter.HandleFunc("/settings", admins.UpdateSettingsHandler).Methods(http.MethodPut)
}
