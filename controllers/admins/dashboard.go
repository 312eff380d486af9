package admins

import (
	"net/http"
	"strings"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"
)

type DailyGrowth struct {
	Day   string `json:"day"`
	Count *int64 `json:"count"`
}

type DailyInvestment struct {
	Day    string   `json:"day"`
	Amount *float64 `json:"amount"`
}

type TransactionDetail struct {
	UserName  string    `json:"user_name"`
	Amount    float64   `json:"amount"`
	Type      string    `json:"type"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type TypeTransactions struct {
	FundAdded   *int64 `json:"fund_added"`
	Investment  *int64 `json:"investment"`
	DailyReturn *int64 `json:"daily_return"`
	Referral    *int64 `json:"referral"`
	Withdrawal  *int64 `json:"withdrawal"`
}

type DashboardStats struct {
	TotalUsers          int64               `json:"total_users"`
	ActiveUsers         int64               `json:"active_users"`
	GrowthUsers         []DailyGrowth       `json:"growth_users"`
	TotalInvestments    int64               `json:"total_investments"`
	ActiveInvestments   int64               `json:"active_investments"`
	OverviewInvestments []DailyInvestment   `json:"overview_investments"`
	TotalWithdrawals    int64               `json:"total_withdrawals"`
	PendingWithdrawals  int64               `json:"pending_withdrawals"`
	PendingFundRequests int64               `json:"pending_fund_requests"`
	TotalFundBalance    float64             `json:"total_fund_balance"`
	TotalEarningsPaid   float64             `json:"total_earnings_paid"`
	TypeTransactions    TypeTransactions    `json:"type_transactions"`
	LastTransactions    []TransactionDetail `json:"last_transactions"`
}

// GET /v1/admins/dashboard
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	db := database.DB

	// initialize slices to ensure empty arrays are returned (not null)
	stats.GrowthUsers = make([]DailyGrowth, 0)
	stats.OverviewInvestments = make([]DailyInvestment, 0)
	stats.LastTransactions = make([]TransactionDetail, 0)

	db.Model(&models.User{}).Count(&stats.TotalUsers)

	db.Model(&models.User{}).
		Distinct("users.id").
		Joins("JOIN investments ON investments.user_id = users.id").
		Where("investments.status = ?", "Running").
		Count(&stats.ActiveUsers)

	// Users registered per day over the last week
	growthMap := map[string]int64{}
	rows, err := db.Model(&models.User{}).
		Select("DATE_FORMAT(created_at, '%W') as day, COUNT(*) as count").
		Where("created_at >= NOW() - INTERVAL 7 DAY").
		Group("DATE_FORMAT(created_at, '%W')").
		Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var day string
			var count int64
			if scanErr := rows.Scan(&day, &count); scanErr == nil {
				growthMap[strings.TrimSpace(day)] = count
			}
		}
	}
	for i := 6; i >= 0; i-- {
		d := time.Now().AddDate(0, 0, -i)
		dayName := d.Format("Monday")
		if val, ok := growthMap[dayName]; ok {
			v := val
			stats.GrowthUsers = append(stats.GrowthUsers, DailyGrowth{Day: dayName, Count: &v})
		} else {
			stats.GrowthUsers = append(stats.GrowthUsers, DailyGrowth{Day: dayName, Count: nil})
		}
	}

	db.Model(&models.Investment{}).Count(&stats.TotalInvestments)

	// Invested amount per day over the last week
	investMap := map[string]float64{}
	rows, err = db.Model(&models.Investment{}).
		Select("DATE_FORMAT(created_at, '%Y-%m-%d') as day, COALESCE(SUM(amount), 0) as amount").
		Where("status IN (?) AND created_at >= CURDATE() - INTERVAL 6 DAY", []string{"Running", "Completed"}).
		Group("DATE_FORMAT(created_at, '%Y-%m-%d')").
		Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var day string
			var amount float64
			if scanErr := rows.Scan(&day, &amount); scanErr == nil {
				investMap[strings.TrimSpace(day)] = amount
			}
		}
	}
	for i := 6; i >= 0; i-- {
		d := time.Now().AddDate(0, 0, -i)
		dateKey := d.Format("2006-01-02")
		dayName := d.Format("Monday")
		if val, ok := investMap[dateKey]; ok {
			v := val
			stats.OverviewInvestments = append(stats.OverviewInvestments, DailyInvestment{Day: dayName, Amount: &v})
		} else {
			stats.OverviewInvestments = append(stats.OverviewInvestments, DailyInvestment{Day: dayName, Amount: nil})
		}
	}

	db.Model(&models.Investment{}).
		Where("status = ?", "Running").
		Count(&stats.ActiveInvestments)

	db.Model(&models.Withdrawal{}).Count(&stats.TotalWithdrawals)

	db.Model(&models.Withdrawal{}).
		Where("status = ?", "Pending").
		Count(&stats.PendingWithdrawals)

	db.Model(&models.AddFundRequest{}).
		Where("status = ?", "Pending").
		Count(&stats.PendingFundRequests)

	type sumResult struct {
		Total float64
	}
	var fundSum sumResult
	db.Model(&models.WalletBalance{}).
		Select("COALESCE(SUM(fund_balance), 0) as total").
		Scan(&fundSum)
	stats.TotalFundBalance = fundSum.Total

	var earningsSum sumResult
	db.Model(&models.WalletBalance{}).
		Select("COALESCE(SUM(investment_returns + referral_earnings), 0) as total").
		Scan(&earningsSum)
	stats.TotalEarningsPaid = earningsSum.Total

	// Per-type transaction counts (null when zero)
	countType := func(types ...string) *int64 {
		var cnt int64
		db.Model(&models.Transaction{}).
			Where("transaction_type IN (?)", types).
			Count(&cnt)
		if cnt == 0 {
			return nil
		}
		return &cnt
	}
	stats.TypeTransactions = TypeTransactions{
		FundAdded:   countType(models.TxTypeFundAdded),
		Investment:  countType(models.TxTypeInvestment),
		DailyReturn: countType(models.TxTypeDailyReturn),
		Referral:    countType(models.TxTypeReferralReward, models.TxTypeMilestoneBonus),
		Withdrawal:  countType(models.TxTypeWithdrawal, models.TxTypeWithdrawalReject),
	}

	rows, err = db.Model(&models.Transaction{}).
		Select("users.name as user_name, transactions.amount, transactions.transaction_type, transactions.message, transactions.created_at").
		Joins("JOIN users ON transactions.user_id = users.id").
		Order("transactions.created_at DESC").
		Limit(10).
		Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var td TransactionDetail
			if scanErr := rows.Scan(&td.UserName, &td.Amount, &td.Type, &td.Message, &td.CreatedAt); scanErr == nil {
				stats.LastTransactions = append(stats.LastTransactions, td)
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    stats,
	})
}
