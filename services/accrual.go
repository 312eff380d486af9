package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccrualService credits daily returns. Each credited day becomes a
// row in earning_credits; the unique (investment_id, accrual_date)
// index means running the sweep twice, or from two processes at once,
// never double-pays.
type AccrualService struct {
	db      *gorm.DB
	calc    *EarningsCalculator
	wallets *WalletService
}

func NewAccrualService(db *gorm.DB, calc *EarningsCalculator, wallets *WalletService) *AccrualService {
	return &AccrualService{db: db, calc: calc, wallets: wallets}
}

// AccrualReport summarizes one sweep.
type AccrualReport struct {
	Investments  int     `json:"investments"`
	CreditedDays int     `json:"credited_days"`
	CreditedAmnt float64 `json:"credited_amount"`
	Completed    int     `json:"completed"`
	Failed       int     `json:"failed"`
}

// RunDaily sweeps every running investment and credits any days that
// have elapsed since the last sweep, including days missed while the
// process was down. Safe to call as often as you like.
func (s *AccrualService) RunDaily(now time.Time) (*AccrualReport, error) {
	var investments []models.Investment
	if err := s.db.Where("status = ?", "Running").Find(&investments).Error; err != nil {
		return nil, err
	}

	report := &AccrualReport{Investments: len(investments)}
	for i := range investments {
		days, amount, completed, err := s.accrueOne(investments[i].ID, now)
		if err != nil {
			report.Failed++
			log.Printf("[accrual] investment %d: %v", investments[i].ID, err)
			continue
		}
		report.CreditedDays += days
		report.CreditedAmnt = utils.RoundFloat(report.CreditedAmnt+amount, 2)
		if completed {
			report.Completed++
		}
	}
	return report, nil
}

// accrueOne brings a single investment up to date inside one
// transaction.
func (s *AccrualService) accrueOne(investmentID uint, now time.Time) (days int, amount float64, completed bool, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Investment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inv, investmentID).Error; err != nil {
			return err
		}
		if inv.Status != "Running" {
			return nil
		}

		target := s.calc.AccruableDays(inv.StartDate, inv.Duration, now)
		for day := inv.DaysAccrued + 1; day <= target; day++ {
			credit := models.EarningCredit{
				InvestmentID: inv.ID,
				UserID:       inv.UserID,
				AccrualDate:  s.calc.AccrualDate(inv.StartDate, day),
				Amount:       utils.RoundFloat(inv.DailyReturns, 2),
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&credit)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// another process credited this day already
				continue
			}
			if err := s.wallets.CreditInvestmentReturns(tx, inv.UserID, credit.Amount); err != nil {
				return err
			}
			message := fmt.Sprintf("Daily return for %s plan (day %d/%d)", inv.PlanLevel, day, inv.Duration)
			if err := tx.Create(&models.Transaction{
				UserID:          inv.UserID,
				Amount:          credit.Amount,
				OrderID:         utils.GenerateReferenceID(inv.UserID),
				TransactionFlow: "credit",
				TransactionType: models.TxTypeDailyReturn,
				Message:         &message,
				Status:          "Success",
			}).Error; err != nil {
				return err
			}
			days++
			amount = utils.RoundFloat(amount+credit.Amount, 2)
		}

		if days > 0 || target > inv.DaysAccrued {
			inv.DaysAccrued = target
			inv.TotalEarned = utils.RoundFloat(inv.DailyReturns*float64(target), 2)
			inv.LastAccrueAt = &now
		}
		if target >= inv.Duration {
			inv.Status = "Completed"
			completed = true
		}
		return tx.Model(&inv).Updates(map[string]interface{}{
			"days_accrued":   inv.DaysAccrued,
			"total_earned":   inv.TotalEarned,
			"last_accrue_at": inv.LastAccrueAt,
			"status":         inv.Status,
		}).Error
	})
	if err != nil {
		return 0, 0, false, err
	}
	return days, amount, completed, nil
}

// Start runs the sweep on a fixed interval until ctx is cancelled.
// The cron endpoint stays the primary trigger; this ticker is a
// fallback for deployments without an external scheduler.
func (s *AccrualService) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				report, err := s.RunDaily(t)
				if err != nil {
					log.Printf("[accrual] sweep failed: %v", err)
					continue
				}
				if report.CreditedDays > 0 || report.Completed > 0 {
					log.Printf("[accrual] credited %d day(s) across %d investment(s), %d completed",
						report.CreditedDays, report.Investments, report.Completed)
				}
			}
		}
	}()
}
