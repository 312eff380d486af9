package services

import (
	"testing"
	"time"

	"github.com/TheSiteshKumar/parlegg/models"
)

func TestRewardForPlan(t *testing.T) {
	tests := []struct {
		level        string
		wantReferrer float64
		wantReferee  float64
		wantOK       bool
	}{
		{"600", 150, 100, true},
		{"3800", 300, 200, true},
		{"9600", 500, 300, true},
		{"20800", 1000, 500, true},
		{"999", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			referrer, referee, ok := RewardForPlan(tt.level)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if referrer != tt.wantReferrer || referee != tt.wantReferee {
				t.Errorf("rewards = (%v, %v), want (%v, %v)", referrer, referee, tt.wantReferrer, tt.wantReferee)
			}
		})
	}
}

func TestMilestoneProgress(t *testing.T) {
	tests := []struct {
		name         string
		completed    int64
		wantCurrent  int
		wantNext     int
		wantProgress float64
	}{
		{"no referrals", 0, 0, 3, 0},
		{"one of three", 1, 0, 3, float64(1) / 3 * 100},
		{"first milestone hit", 3, 3, 10, 0},
		{"between 3 and 10", 5, 3, 10, float64(2) / 7 * 100},
		{"second milestone hit", 10, 10, 25, 0},
		{"top milestone hit", 100, 100, 100, 100},
		{"past top milestone", 250, 100, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, next, progress := MilestoneProgress(tt.completed)
			if current != tt.wantCurrent {
				t.Errorf("current = %d, want %d", current, tt.wantCurrent)
			}
			if next != tt.wantNext {
				t.Errorf("next = %d, want %d", next, tt.wantNext)
			}
			if progress != tt.wantProgress {
				t.Errorf("progress = %v, want %v", progress, tt.wantProgress)
			}
		})
	}
}

func TestConversionPatch(t *testing.T) {
	now := time.Now()
	plan := &models.Plan{Level: "600", Amount: 600, Name: "Starter"}

	t.Run("pending referral converts with snapshots", func(t *testing.T) {
		ref := &models.Referral{Status: "pending"}
		patch, rewards, ok := conversionPatch(ref, plan, now)
		if !ok {
			t.Fatal("expected a conversion")
		}
		if rewards.Referrer != 150 || rewards.Referee != 100 {
			t.Errorf("rewards = (%v, %v), want (150, 100)", rewards.Referrer, rewards.Referee)
		}
		if patch["status"] != "plan_purchased" {
			t.Errorf("status = %v, want plan_purchased", patch["status"])
		}
		if patch["plan_purchased"] != "600" || patch["plan_amount"] != 600.0 {
			t.Errorf("plan snapshot = (%v, %v), want (600, 600)", patch["plan_purchased"], patch["plan_amount"])
		}
		if patch["referrer_reward"] != 150.0 || patch["referee_reward"] != 100.0 {
			t.Errorf("reward snapshot = (%v, %v), want (150, 100)", patch["referrer_reward"], patch["referee_reward"])
		}
		if patch["converted_at"] != now {
			t.Errorf("converted_at = %v, want %v", patch["converted_at"], now)
		}
	})

	t.Run("converted referral stays converted", func(t *testing.T) {
		ref := &models.Referral{Status: "plan_purchased"}
		if _, _, ok := conversionPatch(ref, plan, now); ok {
			t.Fatal("second purchase must not convert again")
		}
	})

	t.Run("plan without reward entry does not convert", func(t *testing.T) {
		ref := &models.Referral{Status: "pending"}
		odd := &models.Plan{Level: "777", Amount: 777}
		if _, _, ok := conversionPatch(ref, odd, now); ok {
			t.Fatal("unknown plan level must not convert")
		}
	})
}

func TestMilestonesDue(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		credited  []int
		want      []int
	}{
		{"below first milestone", 2, nil, nil},
		{"first milestone reached", 3, nil, []int{3}},
		{"catch-up pays every reached milestone", 10, nil, []int{3, 10}},
		{"already credited pays nothing", 10, []int{3, 10}, nil},
		{"partial credit pays the gap", 10, []int{3}, []int{10}},
		{"all milestones reached", 100, nil, []int{3, 10, 25, 50, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			credited := make(map[int]bool, len(tt.credited))
			for _, m := range tt.credited {
				credited[m] = true
			}
			due := milestonesDue(tt.completed, credited)
			var got []int
			for _, m := range due {
				got = append(got, m.Referrals)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("due = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("due = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMilestonesDueReEvaluationIsNoOp(t *testing.T) {
	credited := map[int]bool{}
	for _, m := range milestonesDue(25, credited) {
		credited[m.Referrals] = true
	}
	if again := milestonesDue(25, credited); len(again) != 0 {
		t.Fatalf("re-evaluation credited again: %v", again)
	}
}
