package store

import (
	"time"

	"finguide/internal/core"
)

// demoUserID is the fixture user from the original dataset.
const demoUserID = 123456

// SeedDemo loads the demo ledger used when the service starts with no
// snapshot. Derived fields are computed through the same write-path
// functions real requests use, so the fixtures stay consistent with
// the calculators.
func (s *Store) SeedDemo(now time.Time) {
	profile := core.Profile{
		UserID:            demoUserID,
		Username:          "demo_user",
		FirstName:         "Ivan",
		JoinDate:          core.Date{Time: now.AddDate(0, -1, 0)},
		Balance:           core.FromUnits(25000),
		MonthlyIncome:     core.FromUnits(120000),
		MonthlyExpenses:   core.FromUnits(95000),
		SavingsPercent:    20.8,
		FinancialHealth:   75,
		MainGoal:          "Save up for an apartment",
		SavingsGoal:       core.FromUnits(50000),
		InvestmentPercent: 15,
	}

	txns := []core.Transaction{
		{
			ID:          "1",
			Type:        core.Income,
			Category:    "salary",
			Amount:      core.FromUnits(120000),
			Description: "Monthly salary",
			Date:        core.Timestamp{Time: now.AddDate(0, 0, -3)},
		},
		{
			ID:          "2",
			Type:        core.Expense,
			Category:    "food",
			Amount:      core.FromUnits(25000),
			Description: "Groceries for the week",
			Date:        core.Timestamp{Time: now.AddDate(0, 0, -2)},
		},
		{
			ID:          "3",
			Type:        core.Expense,
			Category:    "transport",
			Amount:      core.FromUnits(5000),
			Description: "Fuel",
			Date:        core.Timestamp{Time: now.AddDate(0, 0, -1)},
		},
	}

	goals := []core.Goal{
		core.GoalDerived(core.Goal{
			ID:       "1",
			Name:     "New laptop",
			Category: "tech",
			Current:  core.FromUnits(25000),
			Target:   core.FromUnits(100000),
			Deadline: core.Date{Time: now.AddDate(0, 0, 90)},
			Created:  core.Date{Time: now.AddDate(0, -1, 0)},
		}, now),
		core.GoalDerived(core.Goal{
			ID:       "2",
			Name:     "Trip abroad",
			Category: "travel",
			Current:  core.FromUnits(33333),
			Target:   core.FromUnits(100000),
			Deadline: core.Date{Time: now.AddDate(0, 0, 135)},
			Created:  core.Date{Time: now.AddDate(0, 0, -20)},
		}, now),
	}

	investments := []core.Investment{
		core.InvestmentDerived(core.Investment{
			ID:       "1",
			Name:     "LUKOIL",
			Type:     "stocks",
			Amount:   core.FromUnits(55000),
			Count:    "10 pcs",
			Invested: core.FromUnits(50000),
			BuyDate:  core.Date{Time: now.AddDate(0, -1, 0)},
		}),
		core.InvestmentDerived(core.Investment{
			ID:       "2",
			Name:     "Bitcoin",
			Type:     "crypto",
			Amount:   core.FromUnits(25000),
			Count:    "0.0005 pcs",
			Invested: core.FromUnits(20000),
			BuyDate:  core.Date{Time: now.AddDate(0, 0, -14)},
		}),
		core.InvestmentDerived(core.Investment{
			ID:       "3",
			Name:     "Sberbank",
			Type:     "stocks",
			Amount:   core.FromUnits(32000),
			Count:    "15 pcs",
			Invested: core.FromUnits(30000),
			BuyDate:  core.Date{Time: now.AddDate(0, 0, -20)},
		}),
	}

	profile.InvestmentsTotal = core.SumInvestments(investments)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[demoUserID] = profile
	s.transactions[demoUserID] = txns
	s.goals[demoUserID] = goals
	s.investments[demoUserID] = investments
}
