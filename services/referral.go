package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type rewardPair struct {
	Referrer float64
	Referee  float64
}

// Reward amounts per plan level, paid on the referred user's first
// plan purchase.
var referralRewards = map[string]rewardPair{
	"600":   {Referrer: 150, Referee: 100},
	"3800":  {Referrer: 300, Referee: 200},
	"9600":  {Referrer: 500, Referee: 300},
	"20800": {Referrer: 1000, Referee: 500},
}

type milestoneBonus struct {
	Referrals int
	Bonus     float64
}

// Milestone bonuses by completed referral count, each paid once.
var milestoneBonuses = []milestoneBonus{
	{Referrals: 3, Bonus: 100},
	{Referrals: 10, Bonus: 300},
	{Referrals: 25, Bonus: 1000},
	{Referrals: 50, Bonus: 4000},
	{Referrals: 100, Bonus: 10000},
}

// ReferralService pays out first-purchase rewards and milestone
// bonuses. Every credit is written twice: a referral_rewards row for
// idempotence and a wallet credit for the balance.
type ReferralService struct {
	db      *gorm.DB
	wallets *WalletService
}

func NewReferralService(db *gorm.DB, wallets *WalletService) *ReferralService {
	return &ReferralService{db: db, wallets: wallets}
}

// Link records the referral relationship at registration time. The
// unique index on referred_id keeps a user from being referred twice.
func (s *ReferralService) Link(tx *gorm.DB, referrerID, referredID uint) error {
	if tx == nil {
		tx = s.db
	}
	return tx.Create(&models.Referral{
		ReferrerID: referrerID,
		ReferredID: referredID,
		Status:     "pending",
	}).Error
}

// conversionPatch decides whether a referral converts on this purchase
// and builds the column updates that stamp the plan and reward
// snapshots. A referral already converted, or a plan with no reward
// entry, yields no patch.
func conversionPatch(ref *models.Referral, plan *models.Plan, now time.Time) (map[string]interface{}, rewardPair, bool) {
	if ref.Status != "pending" {
		return nil, rewardPair{}, false
	}
	rewards, ok := referralRewards[plan.Level]
	if !ok {
		return nil, rewardPair{}, false
	}
	return map[string]interface{}{
		"status":          "plan_purchased",
		"converted_at":    now,
		"plan_purchased":  plan.Level,
		"plan_amount":     plan.Amount,
		"referrer_reward": rewards.Referrer,
		"referee_reward":  rewards.Referee,
	}, rewards, true
}

// ProcessPlanPurchase runs after an investment is created. Only the
// first purchase converts the referral; later purchases are no-ops.
// It must run inside the purchase transaction so a failed payout
// rolls the conversion back too.
func (s *ReferralService) ProcessPlanPurchase(tx *gorm.DB, buyerID uint, buyerName string, plan *models.Plan) error {
	if tx == nil {
		tx = s.db
	}

	var ref models.Referral
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("referred_id = ?", buyerID).
		First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	patch, rewards, ok := conversionPatch(&ref, plan, time.Now())
	if !ok {
		return nil
	}
	if err := tx.Model(&ref).Updates(patch).Error; err != nil {
		return err
	}

	if err := s.payReward(tx, ref.ReferrerID, ref.ID, plan.Level, rewards.Referrer,
		fmt.Sprintf("Referral reward for %s's %s plan purchase", buyerName, plan.Level)); err != nil {
		return err
	}
	if err := s.payReward(tx, buyerID, ref.ID, plan.Level, rewards.Referee,
		fmt.Sprintf("Welcome bonus for purchasing %s plan", plan.Level)); err != nil {
		return err
	}

	return s.checkMilestones(tx, ref.ReferrerID)
}

func (s *ReferralService) payReward(tx *gorm.DB, userID uint, referralID uint, planLevel string, amount float64, message string) error {
	reward := models.ReferralReward{
		UserID:     userID,
		ReferralID: &referralID,
		Type:       models.RewardTypePurchase,
		PlanLevel:  planLevel,
		Amount:     amount,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&reward)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// already credited
		return nil
	}
	if err := s.wallets.CreditReferralEarnings(tx, userID, amount); err != nil {
		return err
	}
	return tx.Create(&models.Transaction{
		UserID:          userID,
		Amount:          amount,
		OrderID:         utils.GenerateReferenceID(userID),
		TransactionFlow: "credit",
		TransactionType: models.TxTypeReferralReward,
		Message:         &message,
		Status:          "Success",
	}).Error
}

// CompletedReferrals counts this referrer's converted referrals.
func (s *ReferralService) CompletedReferrals(tx *gorm.DB, userID uint) (int64, error) {
	if tx == nil {
		tx = s.db
	}
	var count int64
	err := tx.Model(&models.Referral{}).
		Where("referrer_id = ? AND status = ?", userID, "plan_purchased").
		Count(&count).Error
	return count, err
}

// milestonesDue returns the bonuses the completed count has reached
// that are not in the credited set. Re-evaluating with the same inputs
// yields nothing, so every bonus pays at most once.
func milestonesDue(completed int64, credited map[int]bool) []milestoneBonus {
	var due []milestoneBonus
	for _, m := range milestoneBonuses {
		if completed < int64(m.Referrals) {
			break
		}
		if credited[m.Referrals] {
			continue
		}
		due = append(due, m)
	}
	return due
}

func (s *ReferralService) checkMilestones(tx *gorm.DB, userID uint) error {
	completed, err := s.CompletedReferrals(tx, userID)
	if err != nil {
		return err
	}
	var paid []int
	if err := tx.Model(&models.ReferralReward{}).
		Where("user_id = ? AND type = ?", userID, models.RewardTypeMilestone).
		Pluck("milestone", &paid).Error; err != nil {
		return err
	}
	credited := make(map[int]bool, len(paid))
	for _, m := range paid {
		credited[m] = true
	}

	for _, m := range milestonesDue(completed, credited) {
		milestone := m.Referrals
		reward := models.ReferralReward{
			UserID:    userID,
			Type:      models.RewardTypeMilestone,
			Milestone: &milestone,
			Amount:    m.Bonus,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&reward)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		if err := s.wallets.CreditReferralEarnings(tx, userID, m.Bonus); err != nil {
			return err
		}
		message := fmt.Sprintf("Milestone bonus for %d completed referrals", m.Referrals)
		if err := tx.Create(&models.Transaction{
			UserID:          userID,
			Amount:          m.Bonus,
			OrderID:         utils.GenerateReferenceID(userID),
			TransactionFlow: "credit",
			TransactionType: models.TxTypeMilestoneBonus,
			Message:         &message,
			Status:          "Success",
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReferralStats is the dashboard summary for one referrer.
type ReferralStats struct {
	TotalReferrals     int64   `json:"total_referrals"`
	CompletedReferrals int64   `json:"completed_referrals"`
	TotalRewards       float64 `json:"total_rewards"`
	CurrentMilestone   int     `json:"current_milestone"`
	NextMilestone      int     `json:"next_milestone"`
	ProgressToNext     float64 `json:"progress_to_next"`
}

// Stats aggregates referral counts, reward totals and milestone
// progress.
func (s *ReferralService) Stats(userID uint) (*ReferralStats, error) {
	var total int64
	if err := s.db.Model(&models.Referral{}).
		Where("referrer_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, err
	}
	completed, err := s.CompletedReferrals(nil, userID)
	if err != nil {
		return nil, err
	}
	var rewards float64
	if err := s.db.Model(&models.ReferralReward{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&rewards).Error; err != nil {
		return nil, err
	}

	stats := &ReferralStats{
		TotalReferrals:     total,
		CompletedReferrals: completed,
		TotalRewards:       utils.RoundFloat(rewards, 2),
	}
	stats.CurrentMilestone, stats.NextMilestone, stats.ProgressToNext = MilestoneProgress(completed)
	return stats, nil
}

// MilestoneProgress reports the last milestone reached, the next one
// up, and percent progress between the two.
func MilestoneProgress(completed int64) (current, next int, progress float64) {
	next = milestoneBonuses[0].Referrals
	for _, m := range milestoneBonuses {
		if completed >= int64(m.Referrals) {
			current = m.Referrals
			next = m.Referrals
		} else {
			next = m.Referrals
			break
		}
	}
	if next > current {
		progress = float64(completed-int64(current)) / float64(next-current) * 100
		if progress > 100 {
			progress = 100
		}
		if progress < 0 {
			progress = 0
		}
	} else {
		progress = 100
	}
	return current, next, progress
}

// RewardForPlan looks up the first-purchase reward pair for a plan
// level.
func RewardForPlan(level string) (referrer, referee float64, ok bool) {
	r, ok := referralRewards[level]
	return r.Referrer, r.Referee, ok
}

// Referrals lists users this referrer brought in, newest first.
func (s *ReferralService) Referrals(userID uint) ([]models.Referral, error) {
	var refs []models.Referral
	err := s.db.Where("referrer_id = ?", userID).
		Order("created_at DESC").
		Find(&refs).Error
	return refs, err
}

// Rewards lists every reward credited to this user, newest first.
func (s *ReferralService) Rewards(userID uint) ([]models.ReferralReward, error) {
	var rewards []models.ReferralReward
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rewards).Error
	return rewards, err
}
