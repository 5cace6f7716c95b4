package core

import (
	"testing"
	"time"
)

func TestApplyTransactionIncome(t *testing.T) {
	p := Profile{Balance: FromUnits(1000)}
	p = ApplyTransaction(p, Transaction{Type: Income, Amount: FromUnits(500)})

	if p.Balance != FromUnits(1500) {
		t.Fatalf("balance: expected 1500, got %s", p.Balance)
	}
	if p.MonthlyIncome != FromUnits(500) {
		t.Fatalf("monthly income: expected 500, got %s", p.MonthlyIncome)
	}
	if p.SavingsPercent != 100.0 {
		t.Fatalf("savings percent: expected 100, got %v", p.SavingsPercent)
	}
}

func TestApplyTransactionExpense(t *testing.T) {
	p := Profile{Balance: FromUnits(1000), MonthlyIncome: FromUnits(500)}
	p = ApplyTransaction(p, Transaction{Type: Expense, Amount: FromUnits(200)})

	if p.Balance != FromUnits(800) {
		t.Fatalf("balance: expected 800, got %s", p.Balance)
	}
	if p.MonthlyExpenses != FromUnits(200) {
		t.Fatalf("monthly expenses: expected 200, got %s", p.MonthlyExpenses)
	}
	if p.SavingsPercent != 60.0 {
		t.Fatalf("savings percent: expected 60, got %v", p.SavingsPercent)
	}
}

func TestApplyTransactionZeroIncomeExpenses(t *testing.T) {
	p := Profile{}
	p = ApplyTransaction(p, Transaction{Type: Expense, Amount: FromUnits(100)})
	if p.SavingsPercent != -100.0 {
		t.Fatalf("savings percent with zero income: expected -100, got %v", p.SavingsPercent)
	}
	if p.Balance != FromUnits(-100) {
		t.Fatalf("balance: expected -100, got %s", p.Balance)
	}
}

func TestApplyTransactionKeepsPercentWithoutFlows(t *testing.T) {
	p := Profile{SavingsPercent: 20.8}
	p = ApplyTransaction(p, Transaction{Type: Income, Amount: Money{}})
	if p.SavingsPercent != 20.8 {
		t.Fatalf("savings percent: expected 20.8 unchanged, got %v", p.SavingsPercent)
	}
}

func TestApplyTransactionOrderIndependentTotals(t *testing.T) {
	txns := []Transaction{
		{Type: Income, Amount: FromUnits(1200)},
		{Type: Expense, Amount: FromUnits(300)},
		{Type: Expense, Amount: FromUnits(150)},
	}

	forward := Profile{}
	for _, tx := range txns {
		forward = ApplyTransaction(forward, tx)
	}
	backward := Profile{}
	for i := len(txns) - 1; i >= 0; i-- {
		backward = ApplyTransaction(backward, txns[i])
	}

	if forward.Balance != backward.Balance || forward.MonthlyIncome != backward.MonthlyIncome ||
		forward.MonthlyExpenses != backward.MonthlyExpenses || forward.SavingsPercent != backward.SavingsPercent {
		t.Fatalf("totals differ by order: %+v vs %+v", forward, backward)
	}
	if forward.Balance != FromUnits(750) {
		t.Fatalf("balance: expected 750, got %s", forward.Balance)
	}
}

func TestGoalDerived(t *testing.T) {
	now := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	g := Goal{
		Name:     "Emergency fund",
		Current:  FromUnits(25000),
		Target:   FromUnits(100000),
		Deadline: Date{Time: now.AddDate(0, 0, 90)},
	}
	g = GoalDerived(g, now)

	if g.Progress != 25.0 {
		t.Fatalf("progress: expected 25.0, got %v", g.Progress)
	}
	if g.DaysLeft != 90 {
		t.Fatalf("days left: expected 90, got %d", g.DaysLeft)
	}
	// (100000-25000)/90 = 833.33 per day
	if g.Daily.Cents != 83333 {
		t.Fatalf("daily: expected 83333 cents, got %d", g.Daily.Cents)
	}
}

func TestGoalDerivedPastDeadline(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	g := Goal{
		Current:  FromUnits(10),
		Target:   FromUnits(100),
		Deadline: Date{Time: now.AddDate(0, 0, -5)},
	}
	g = GoalDerived(g, now)

	if g.DaysLeft != 0 {
		t.Fatalf("days left: expected 0, got %d", g.DaysLeft)
	}
	if g.Daily.Cents != 0 {
		t.Fatalf("daily: expected 0 past deadline, got %d", g.Daily.Cents)
	}
}

func TestGoalDerivedOverfunded(t *testing.T) {
	now := time.Now()
	g := Goal{
		Current:  FromUnits(150),
		Target:   FromUnits(100),
		Deadline: Date{Time: now.AddDate(0, 0, 10)},
	}
	g = GoalDerived(g, now)
	if g.Progress != 150.0 {
		t.Fatalf("progress is not capped: expected 150, got %v", g.Progress)
	}
}

func TestInvestmentDerived(t *testing.T) {
	inv := Investment{
		Name:     "LUKOIL",
		Amount:   FromUnits(55000),
		Invested: FromUnits(50000),
	}
	inv = InvestmentDerived(inv)

	if inv.Profit != FromUnits(5000) {
		t.Fatalf("profit: expected 5000, got %s", inv.Profit)
	}
	if inv.ProfitPercent != 10.0 {
		t.Fatalf("profit percent: expected 10, got %v", inv.ProfitPercent)
	}
}

func TestInvestmentDerivedZeroBasis(t *testing.T) {
	inv := Investment{Name: "airdrop", Amount: FromUnits(100)}
	inv = InvestmentDerived(inv)
	if inv.Profit.Cents != 0 || inv.ProfitPercent != 0 {
		t.Fatalf("zero basis: expected 0/0, got %s/%v", inv.Profit, inv.ProfitPercent)
	}
}

func TestInvestmentDerivedLoss(t *testing.T) {
	inv := Investment{Name: "meme", Amount: FromUnits(80), Invested: FromUnits(100)}
	inv = InvestmentDerived(inv)
	if inv.Profit != FromUnits(-20) {
		t.Fatalf("profit: expected -20, got %s", inv.Profit)
	}
	if inv.ProfitPercent != -20.0 {
		t.Fatalf("profit percent: expected -20, got %v", inv.ProfitPercent)
	}
}

func TestSumInvestments(t *testing.T) {
	total := SumInvestments([]Investment{
		{Amount: FromUnits(55000)},
		{Amount: FromUnits(25000)},
		{Amount: FromUnits(32000)},
	})
	if total != FromUnits(112000) {
		t.Fatalf("expected 112000, got %s", total)
	}
	if got := SumInvestments(nil); got.Cents != 0 {
		t.Fatalf("empty list: expected 0, got %s", got)
	}
}

func TestRound1(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{20.84, 20.8},
		{20.85, 20.9},
		{-20.85, -20.9},
		{25.0, 25.0},
	}
	for _, tc := range cases {
		if got := Round1(tc.in); got != tc.want {
			t.Fatalf("Round1(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}
