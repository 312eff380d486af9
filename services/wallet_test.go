package services

import (
	"testing"

	"github.com/TheSiteshKumar/parlegg/models"
)

func TestComputeSummary(t *testing.T) {
	tests := []struct {
		name             string
		wallet           models.WalletBalance
		withdrawn        float64
		pending          float64
		wantEarnings     float64
		wantAvailable    float64
		wantWithdrawable float64
	}{
		{
			name:             "fresh wallet",
			wallet:           models.WalletBalance{},
			wantEarnings:     0,
			wantAvailable:    0,
			wantWithdrawable: 0,
		},
		{
			name:             "earnings with one approved withdrawal",
			wallet:           models.WalletBalance{InvestmentReturns: 1215, ReferralEarnings: 450},
			withdrawn:        500,
			wantEarnings:     1665,
			wantAvailable:    1165,
			wantWithdrawable: 1165,
		},
		{
			name:             "returns plus referral minus approved withdrawal",
			wallet:           models.WalletBalance{InvestmentReturns: 1000, ReferralEarnings: 500},
			withdrawn:        600,
			wantEarnings:     1500,
			wantAvailable:    900,
			wantWithdrawable: 900,
		},
		{
			name:             "pending withdrawal reserves funds",
			wallet:           models.WalletBalance{InvestmentReturns: 1215, ReferralEarnings: 450},
			withdrawn:        500,
			pending:          200,
			wantEarnings:     1665,
			wantAvailable:    1165,
			wantWithdrawable: 965,
		},
		{
			name:             "over-withdrawn clamps to zero",
			wallet:           models.WalletBalance{InvestmentReturns: 100},
			withdrawn:        250,
			wantEarnings:     100,
			wantAvailable:    0,
			wantWithdrawable: 0,
		},
		{
			name:             "pending larger than available clamps to zero",
			wallet:           models.WalletBalance{ReferralEarnings: 150},
			pending:          300,
			wantEarnings:     150,
			wantAvailable:    150,
			wantWithdrawable: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSummary(&tt.wallet, tt.withdrawn, tt.pending)
			if got.TotalEarnings != tt.wantEarnings {
				t.Errorf("TotalEarnings = %v, want %v", got.TotalEarnings, tt.wantEarnings)
			}
			if got.AvailableEarnings != tt.wantAvailable {
				t.Errorf("AvailableEarnings = %v, want %v", got.AvailableEarnings, tt.wantAvailable)
			}
			if got.Withdrawable != tt.wantWithdrawable {
				t.Errorf("Withdrawable = %v, want %v", got.Withdrawable, tt.wantWithdrawable)
			}
		})
	}
}

func TestComputeSummaryPassesThroughAccumulators(t *testing.T) {
	w := models.WalletBalance{FundBalance: 600, TotalAdded: 1200, TotalUsed: 600, InvestmentReturns: 270, ReferralEarnings: 150}
	got := ComputeSummary(&w, 0, 0)

	if got.FundBalance != 600 {
		t.Errorf("FundBalance = %v, want 600", got.FundBalance)
	}
	if got.TotalAdded != 1200 || got.TotalUsed != 600 {
		t.Errorf("ledger totals = (%v, %v), want (1200, 600)", got.TotalAdded, got.TotalUsed)
	}
	if got.FundBalance != got.TotalAdded-got.TotalUsed {
		t.Errorf("fund balance %v does not reconcile with total_added-total_used %v", got.FundBalance, got.TotalAdded-got.TotalUsed)
	}
	if got.InvestmentReturns != 270 {
		t.Errorf("InvestmentReturns = %v, want 270", got.InvestmentReturns)
	}
	if got.ReferralEarnings != 150 {
		t.Errorf("ReferralEarnings = %v, want 150", got.ReferralEarnings)
	}
}
