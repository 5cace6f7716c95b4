package core

import (
	"math"
	"time"
)

// ApplyTransaction folds one transaction into the profile totals and
// refreshes the derived savings percent. Income raises balance and
// monthly income; expenses lower the balance and raise monthly
// expenses.
//
// Savings percent is (income − expenses) / income × 100, rounded to one
// decimal. With zero income and nonzero expenses the formula has no
// value; we report −100 (everything spent, nothing earned) instead of
// faulting. With no recorded flows at all the previous value is kept.
func ApplyTransaction(p Profile, t Transaction) Profile {
	if t.Type == Income {
		p.Balance = p.Balance.Add(t.Amount)
		p.MonthlyIncome = p.MonthlyIncome.Add(t.Amount)
	} else {
		p.Balance = p.Balance.Sub(t.Amount)
		p.MonthlyExpenses = p.MonthlyExpenses.Add(t.Amount)
	}
	if p.MonthlyIncome.Cents+p.MonthlyExpenses.Cents > 0 {
		if p.MonthlyIncome.Cents == 0 {
			p.SavingsPercent = -100.0
		} else {
			net := p.MonthlyIncome.Float() - p.MonthlyExpenses.Float()
			p.SavingsPercent = Round1(net / p.MonthlyIncome.Float() * 100)
		}
	}
	return p
}

// GoalDerived recomputes the goal's derived fields against "now".
// Progress is not capped: a goal past its target reports >100%.
func GoalDerived(g Goal, now time.Time) Goal {
	if g.Target.Cents > 0 {
		g.Progress = Round1(g.Current.Float() / g.Target.Float() * 100)
	} else {
		g.Progress = 0
	}
	g.DaysLeft = daysUntil(g.Deadline.Time, now)
	if g.DaysLeft > 0 {
		remaining := g.Target.Sub(g.Current)
		g.Daily = Money{Cents: int64(math.Round(float64(remaining.Cents) / float64(g.DaysLeft)))}
	} else {
		g.Daily = Money{}
	}
	return g
}

// InvestmentDerived recomputes profit and profit percent. A position
// with zero cost basis reports 0/0 rather than dividing by zero.
func InvestmentDerived(inv Investment) Investment {
	if inv.Invested.Cents > 0 {
		inv.Profit = inv.Amount.Sub(inv.Invested)
		inv.ProfitPercent = Round1(inv.Profit.Float() / inv.Invested.Float() * 100)
	} else {
		inv.Profit = Money{}
		inv.ProfitPercent = 0
	}
	return inv
}

// SumInvestments totals the current market value of all positions;
// the result refreshes Profile.InvestmentsTotal after investment
// writes.
func SumInvestments(investments []Investment) Money {
	var total Money
	for _, inv := range investments {
		total = total.Add(inv.Amount)
	}
	return total
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// daysUntil counts whole days from now to the deadline, floored at
// zero. The original counted calendar-time difference truncated to
// days, so a deadline 90×24h away reports 90.
func daysUntil(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d.Hours() / 24)
}
