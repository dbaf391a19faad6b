package domain

import (
	"testing"
	"time"
)

func sampleLines() ([]*BudgetServiceLine, []*BudgetPartLine) {
	oil := &Service{ID: 1, Name: "Troca de óleo", Price: 10.00}
	align := &Service{ID: 2, Name: "Alinhamento", Price: 5.00}
	filter := &Part{ID: 7, Name: "Filtro", Price: 20.00}

	services := []*BudgetServiceLine{
		{Service: oil, Quantity: 2},
		{Service: align, Quantity: 1},
	}
	parts := []*BudgetPartLine{
		{Part: filter, Quantity: 1},
	}
	return services, parts
}

func TestComputeTotals_NoDiscount(t *testing.T) {
	services, parts := sampleLines()

	got := ComputeTotals(services, parts, NoDiscount)
	if got.Total != 45.00 {
		t.Fatalf("expected total 45.00, got %v", got.Total)
	}
	if got.Discount != 0 {
		t.Fatalf("expected no discount, got %v", got.Discount)
	}
}

func TestComputeTotals_NilPolicy(t *testing.T) {
	services, parts := sampleLines()

	got := ComputeTotals(services, parts, nil)
	if got.Total != 45.00 || got.Discount != 0 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestComputeTotals_PolicyReceivesRawSum(t *testing.T) {
	services, parts := sampleLines()

	var seen float64
	policy := func(subtotal float64) float64 {
		seen = subtotal
		return 4.5
	}

	got := ComputeTotals(services, parts, policy)
	if seen != 45.00 {
		t.Fatalf("policy saw %v, expected 45.00", seen)
	}
	if got.Discount != 4.5 {
		t.Fatalf("expected discount 4.5, got %v", got.Discount)
	}
}

func TestComputeTotals_ClampsDiscount(t *testing.T) {
	services, parts := sampleLines()

	got := ComputeTotals(services, parts, func(float64) float64 { return 1000 })
	if got.Discount != got.Total {
		t.Fatalf("discount should be clamped to total, got %+v", got)
	}

	got = ComputeTotals(services, parts, func(float64) float64 { return -3 })
	if got.Discount != 0 {
		t.Fatalf("negative discount should be clamped to zero, got %+v", got)
	}
}

func TestThresholdDiscount(t *testing.T) {
	policy := ThresholdDiscount(100, 0.1)

	if d := policy(99.99); d != 0 {
		t.Fatalf("expected no discount below threshold, got %v", d)
	}
	if d := policy(200); d != 20 {
		t.Fatalf("expected 20 discount, got %v", d)
	}
}

func TestBudgetRecalculate_OverwritesStaleValues(t *testing.T) {
	services, parts := sampleLines()
	b := NewBudget(&Client{ID: 3}, time.Now())
	b.Total = 999
	b.Discount = 111
	b.ReplaceLines(services, parts)

	b.Recalculate(NoDiscount)

	if b.Total != 45 || b.Discount != 0 {
		t.Fatalf("expected recomputed totals, got total=%v discount=%v", b.Total, b.Discount)
	}
	if b.AmountDue() != 45 {
		t.Fatalf("expected amount due 45, got %v", b.AmountDue())
	}
}

func TestBudgetReplaceLines_DropsOldLines(t *testing.T) {
	services, parts := sampleLines()
	b := NewBudget(&Client{ID: 3}, time.Now())
	b.ID = 42
	b.ReplaceLines(services, parts)
	b.Recalculate(NoDiscount)

	brake := &Service{ID: 9, Name: "Freio", Price: 30}
	b.ReplaceLines([]*BudgetServiceLine{{Service: brake, Quantity: 1}}, nil)
	b.Recalculate(NoDiscount)

	if len(b.ServiceLines) != 1 || len(b.PartLines) != 0 {
		t.Fatalf("expected only the new lines, got %d services and %d parts", len(b.ServiceLines), len(b.PartLines))
	}
	if b.ServiceLines[0].BudgetID != 42 {
		t.Fatalf("expected line bound to budget 42, got %d", b.ServiceLines[0].BudgetID)
	}
	if b.Total != 30 {
		t.Fatalf("expected total 30, got %v", b.Total)
	}
}

func TestBudgetValidate_Quantity(t *testing.T) {
	b := NewBudget(&Client{ID: 3}, time.Now())
	b.ReplaceLines([]*BudgetServiceLine{{Service: &Service{ID: 1, Price: 1}, Quantity: 0}}, nil)

	if err := b.Validate(); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}

func TestNewBudget_DateOnly(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	b := NewBudget(&Client{ID: 1}, now)

	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !b.CreatedAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, b.CreatedAt)
	}
}
