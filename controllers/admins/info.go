package admins

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"

	"gorm.io/gorm"
)

type serverStatus struct {
	Status   bool `json:"status"`
	Database bool `json:"database"`
}

type applicationsStatus struct {
	PendingWithdrawals  int64 `json:"pending_withdrawals"`
	PendingFundRequests int64 `json:"pending_fund_requests"`
}

type notificationItem struct {
	Notificated bool   `json:"notificated"`
	Message     string `json:"message"`
	Time        string `json:"time"`
}

type notificationsPayload struct {
	PendingWithdrawals  *[]notificationItem `json:"pending_withdrawals"`
	PendingFundRequests *[]notificationItem `json:"pending_fund_requests"`
	NewUsers            *[]notificationItem `json:"new_users"`
}

type adminInfoResponse struct {
	Servers       serverStatus         `json:"servers"`
	Applications  applicationsStatus   `json:"applications"`
	Notifications notificationsPayload `json:"notifications"`
}

// GET /v1/admins/info
func GetAdminInfo(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	serverOK := true
	dbOK := pingDB(db)

	var pendingWithdrawals int64
	db.Model(&models.Withdrawal{}).Where("status = ?", "Pending").Count(&pendingWithdrawals)

	var pendingFunds int64
	db.Model(&models.AddFundRequest{}).Where("status = ?", "Pending").Count(&pendingFunds)

	// New users today, site-local day
	loc := utils.SiteLocation()
	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)

	var newUsersToday int64
	db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&newUsersToday)

	var notifs notificationsPayload

	if pendingWithdrawals > 0 {
		msg := fmt.Sprintf("%d withdrawals awaiting approval", pendingWithdrawals)
		items := []notificationItem{
			{Notificated: true, Message: msg, Time: time.Now().Format(time.RFC3339)},
		}
		notifs.PendingWithdrawals = &items
	}

	if pendingFunds > 0 {
		msg := fmt.Sprintf("%d fund requests awaiting approval", pendingFunds)
		items := []notificationItem{
			{Notificated: true, Message: msg, Time: time.Now().Format(time.RFC3339)},
		}
		notifs.PendingFundRequests = &items
	}

	if newUsersToday > 0 {
		msg := fmt.Sprintf("%d new users registered today", newUsersToday)
		items := []notificationItem{
			{Notificated: false, Message: msg, Time: time.Now().Format(time.RFC3339)},
		}
		notifs.NewUsers = &items
	}

	resp := adminInfoResponse{
		Servers: serverStatus{
			Status:   serverOK,
			Database: dbOK,
		},
		Applications: applicationsStatus{
			PendingWithdrawals:  pendingWithdrawals,
			PendingFundRequests: pendingFunds,
		},
		Notifications: notifs,
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    resp,
	})
}

func pingDB(gdb *gorm.DB) bool {
	if gdb == nil {
		return false
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx) == nil
}
