package services

import (
	"errors"

	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientBalance = errors.New("insufficient_balance")

// WalletService owns all balance math. The wallet row only ever
// accumulates credits; withdrawals and fund debits are derived from
// their own tables at read time, so the available balance can always
// be recomputed from first principles.
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// GetOrCreate loads the user's wallet row, creating it lazily. When
// called with a transaction the row is locked FOR UPDATE.
func (s *WalletService) GetOrCreate(tx *gorm.DB, userID uint) (*models.WalletBalance, error) {
	locked := tx != nil
	if tx == nil {
		tx = s.db
	}
	var w models.WalletBalance
	q := tx.Where("user_id = ?", userID)
	if locked {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = models.WalletBalance{UserID: userID}
		if err := tx.Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CreditFunds adds approved top-up money to the purchase balance and
// grows the lifetime total_added in the same update.
func (s *WalletService) CreditFunds(tx *gorm.DB, userID uint, amount float64) error {
	if tx == nil {
		tx = s.db
	}
	w, err := s.GetOrCreate(tx, userID)
	if err != nil {
		return err
	}
	w.FundBalance = utils.RoundFloat(w.FundBalance+amount, 2)
	w.TotalAdded = utils.RoundFloat(w.TotalAdded+amount, 2)
	return tx.Model(w).Updates(map[string]interface{}{
		"fund_balance": w.FundBalance,
		"total_added":  w.TotalAdded,
	}).Error
}

// DebitFunds spends purchase balance and grows the lifetime
// total_used, failing with ErrInsufficientBalance when the wallet
// cannot cover the amount. When called with a transaction the wallet
// row stays locked FOR UPDATE afterwards.
func (s *WalletService) DebitFunds(tx *gorm.DB, userID uint, amount float64) error {
	if tx == nil {
		tx = s.db
	}
	w, err := s.GetOrCreate(tx, userID)
	if err != nil {
		return err
	}
	if w.FundBalance < amount {
		return ErrInsufficientBalance
	}
	w.FundBalance = utils.RoundFloat(w.FundBalance-amount, 2)
	w.TotalUsed = utils.RoundFloat(w.TotalUsed+amount, 2)
	return tx.Model(w).Updates(map[string]interface{}{
		"fund_balance": w.FundBalance,
		"total_used":   w.TotalUsed,
	}).Error
}

// CreditInvestmentReturns adds accrued daily returns.
func (s *WalletService) CreditInvestmentReturns(tx *gorm.DB, userID uint, amount float64) error {
	if tx == nil {
		tx = s.db
	}
	w, err := s.GetOrCreate(tx, userID)
	if err != nil {
		return err
	}
	w.InvestmentReturns = utils.RoundFloat(w.InvestmentReturns+amount, 2)
	return tx.Model(w).Update("investment_returns", w.InvestmentReturns).Error
}

// CreditReferralEarnings adds referral rewards and milestone bonuses.
func (s *WalletService) CreditReferralEarnings(tx *gorm.DB, userID uint, amount float64) error {
	if tx == nil {
		tx = s.db
	}
	w, err := s.GetOrCreate(tx, userID)
	if err != nil {
		return err
	}
	w.ReferralEarnings = utils.RoundFloat(w.ReferralEarnings+amount, 2)
	return tx.Model(w).Update("referral_earnings", w.ReferralEarnings).Error
}

// TotalWithdrawn sums approved withdrawals.
func (s *WalletService) TotalWithdrawn(tx *gorm.DB, userID uint) (float64, error) {
	return s.sumWithdrawals(tx, userID, "Approved")
}

// PendingWithdrawals sums withdrawals still waiting for an admin.
func (s *WalletService) PendingWithdrawals(tx *gorm.DB, userID uint) (float64, error) {
	return s.sumWithdrawals(tx, userID, "Pending")
}

func (s *WalletService) sumWithdrawals(tx *gorm.DB, userID uint, status string) (float64, error) {
	if tx == nil {
		tx = s.db
	}
	var total float64
	err := tx.Model(&models.Withdrawal{}).
		Where("user_id = ? AND status = ?", userID, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// AvailableEarningsBalance is gross lifetime earnings minus approved
// withdrawals, floored at zero.
func (s *WalletService) AvailableEarningsBalance(tx *gorm.DB, userID uint) (float64, error) {
	w, err := s.GetOrCreate(tx, userID)
	if err != nil {
		return 0, err
	}
	withdrawn, err := s.TotalWithdrawn(tx, userID)
	if err != nil {
		return 0, err
	}
	avail := utils.RoundFloat(w.Earnings()-withdrawn, 2)
	if avail < 0 {
		avail = 0
	}
	return avail, nil
}

// WithdrawableBalance also subtracts pending withdrawals, so funds a
// request already reserved cannot be requested twice. A rejected
// request releases its reservation because it drops out of the
// pending sum.
func (s *WalletService) WithdrawableBalance(tx *gorm.DB, userID uint) (float64, error) {
	avail, err := s.AvailableEarningsBalance(tx, userID)
	if err != nil {
		return 0, err
	}
	pending, err := s.PendingWithdrawals(tx, userID)
	if err != nil {
		return 0, err
	}
	withdrawable := utils.RoundFloat(avail-pending, 2)
	if withdrawable < 0 {
		withdrawable = 0
	}
	return withdrawable, nil
}

// WalletSummary is the reconciliation snapshot returned to clients.
type WalletSummary struct {
	FundBalance        float64 `json:"fund_balance"`
	TotalAdded         float64 `json:"total_added"`
	TotalUsed          float64 `json:"total_used"`
	InvestmentReturns  float64 `json:"investment_returns"`
	ReferralEarnings   float64 `json:"referral_earnings"`
	TotalEarnings      float64 `json:"total_earnings"`
	TotalWithdrawn     float64 `json:"total_withdrawn"`
	PendingWithdrawals float64 `json:"pending_withdrawals"`
	AvailableEarnings  float64 `json:"available_earnings"`
	Withdrawable       float64 `json:"withdrawable"`
}

// ComputeSummary derives every balance from the wallet accumulators
// and the withdrawal sums. Pure so reconciliation is easy to verify.
func ComputeSummary(w *models.WalletBalance, withdrawn, pending float64) *WalletSummary {
	avail := utils.RoundFloat(w.Earnings()-withdrawn, 2)
	if avail < 0 {
		avail = 0
	}
	withdrawable := utils.RoundFloat(avail-pending, 2)
	if withdrawable < 0 {
		withdrawable = 0
	}
	return &WalletSummary{
		FundBalance:        w.FundBalance,
		TotalAdded:         w.TotalAdded,
		TotalUsed:          w.TotalUsed,
		InvestmentReturns:  w.InvestmentReturns,
		ReferralEarnings:   w.ReferralEarnings,
		TotalEarnings:      utils.RoundFloat(w.Earnings(), 2),
		TotalWithdrawn:     withdrawn,
		PendingWithdrawals: pending,
		AvailableEarnings:  avail,
		Withdrawable:       withdrawable,
	}
}

// Summary recomputes every derived balance for one user.
func (s *WalletService) Summary(userID uint) (*WalletSummary, error) {
	w, err := s.GetOrCreate(nil, userID)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.TotalWithdrawn(nil, userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.PendingWithdrawals(nil, userID)
	if err != nil {
		return nil, err
	}
	return ComputeSummary(w, withdrawn, pending), nil
}
