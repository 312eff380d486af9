package users

import (
	"net/http"
	"os"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/services"
	"github.com/TheSiteshKumar/parlegg/utils"
)

// POST /v1/cron/daily-returns
// External schedulers hit this once a day. The accrual sweep is
// idempotent, so overlapping or repeated calls are harmless.
func CronDailyReturnsHandler(w http.ResponseWriter, r *http.Request) {
	cronKey := os.Getenv("CRON_KEY")
	if cronKey == "" || r.Header.Get("X-CRON-KEY") != cronKey {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	wallets := services.NewWalletService(db)
	calc := services.NewEarningsCalculator(utils.SiteLocation())
	accrual := services.NewAccrualService(db, calc, wallets)

	report, err := accrual.RunDaily(time.Now())
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Daily returns sweep failed"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    report,
	})
}
