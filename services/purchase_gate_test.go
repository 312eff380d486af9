package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/TheSiteshKumar/parlegg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	var queries []string
	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		queries = append(queries, tx.Statement.SQL.String())
	})
	if err != nil {
		t.Fatalf("register capture callback: %v", err)
	}
	return db, &queries
}

// Two concurrent buys of a limited plan must not both pass the count,
// so the count has to be a locking read rather than a snapshot read.
func TestCheckCountsWithRowLock(t *testing.T) {
	db, queries := dryRunDB(t)

	gate := NewPurchaseGate(db)
	plan := &models.Plan{Level: "600", Name: "Starter", PurchaseLimit: 1}
	if err := gate.Check(db, 7, plan); err != nil {
		t.Fatalf("Check: %v", err)
	}

	found := false
	for _, q := range *queries {
		if strings.Contains(q, "plan_purchases") && strings.Contains(q, "FOR UPDATE") {
			found = true
		}
	}
	if !found {
		t.Fatalf("limit count did not lock purchase rows, queries: %q", *queries)
	}
}

func TestCheckUnlimitedPlanSkipsCount(t *testing.T) {
	db, queries := dryRunDB(t)

	gate := NewPurchaseGate(db)
	plan := &models.Plan{Level: "20800", Name: "Platinum", PurchaseLimit: 0}
	if err := gate.Check(db, 7, plan); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(*queries) != 0 {
		t.Fatalf("unlimited plan should not query, got %q", *queries)
	}
}

func TestPurchaseLimitError(t *testing.T) {
	var err error = &PurchaseLimitError{PlanName: "Starter", CurrentCount: 1, MaxLimit: 1}

	var limitErr *PurchaseLimitError
	if !errors.As(err, &limitErr) {
		t.Fatal("errors.As failed to match *PurchaseLimitError")
	}
	if limitErr.CurrentCount != 1 || limitErr.MaxLimit != 1 {
		t.Errorf("unexpected counts: %d/%d", limitErr.CurrentCount, limitErr.MaxLimit)
	}
	want := "purchase limit reached for Starter (1/1)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
