package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/TheSiteshKumar/parlegg/controllers"
	"github.com/TheSiteshKumar/parlegg/controllers/users"
	"github.com/TheSiteshKumar/parlegg/middleware"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func InitRouter() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint for Docker health checks (root level)
	r.Handle("/health", http.HandlerFunc(controllers.HealthHandler)).Methods(http.MethodGet)

	// CORS - origins from CORS_ALLOWED_ORIGINS (comma-separated) or defaults
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	origins := []string{
		"https://parlegg.com", "https://www.parlegg.com",
		"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000", "http://127.0.0.1:5173",
	}
	if originsEnv != "" {
		parts := strings.Split(originsEnv, ",")
		for _, p := range parts {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-CRON-KEY", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/v1").Subrouter()

	// Catch-all OPTIONS handler for CORS preflight
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	// Cron endpoint for daily returns, protected via X-CRON-KEY.
	// Scheduler IPs from CRON_IP_WHITELIST bypass the rate limit.
	var cronWhitelist []string
	if v := os.Getenv("CRON_IP_WHITELIST"); v != "" {
		cronWhitelist = strings.Split(v, ",")
	}
	cronLimiter := middleware.NewCronLimiter(60, time.Hour, cronWhitelist)
	api.Handle("/cron/daily-returns", cronLimiter.Middleware(http.HandlerFunc(users.CronDailyReturnsHandler))).Methods(http.MethodPost)

	// Public application info
	api.Handle("/info", http.HandlerFunc(controllers.InfoPublicHandler)).Methods(http.MethodGet)

	// Public plan catalog
	api.Handle("/plans", http.HandlerFunc(controllers.PlanListHandler)).Methods(http.MethodGet)

	// Health check under the API prefix as well
	api.Handle("/health", http.HandlerFunc(controllers.HealthHandler)).Methods(http.MethodGet)

	UsersRoutes(api)
	SetAdminRoutes(api)

	return r
}
