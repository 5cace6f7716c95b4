package core

import "fmt"

// Expense shares above this percentage of the month's spending trigger
// a per-category advisory line.
const categoryShareThreshold = 30.0

// GenerateAdvice derives canned textual suggestions from a monthly
// summary. Rules fire independently and their output keeps a fixed
// order: negative balance first, then heavy categories, then the
// savings-ratio checks. When nothing fires a single reassuring line is
// returned.
func GenerateAdvice(s MonthlySummary) []string {
	if !s.HasData {
		return []string{"No transactions recorded this month yet — add your first income or expense to get personalized advice."}
	}

	var advice []string

	if s.Balance.Cents < 0 {
		overspent := Money{Cents: -s.Balance.Cents}
		advice = append(advice, fmt.Sprintf("Warning: you spent %s more than you earned this month. Review your biggest expenses.", overspent.String()))
	}

	for _, share := range s.ByCategory {
		if share.Percent > categoryShareThreshold {
			advice = append(advice, fmt.Sprintf("Category %q takes %.1f%% of your monthly spending — consider trimming it.", share.Category, share.Percent))
		}
	}

	if s.Income.Cents > 0 {
		saveRatio := Round1(s.Balance.Float() / s.Income.Float() * 100)
		if saveRatio < 10 {
			advice = append(advice, fmt.Sprintf("You are saving only %.1f%% of your income this month. Aim for at least 10%%.", saveRatio))
		}
		if s.Balance.Float() > s.Income.Float()*0.2 {
			advice = append(advice, "Great job: you kept more than 20% of this month's income. Consider investing the surplus.")
		}
	}

	if len(advice) == 0 {
		advice = append(advice, "Your finances look fine this month. Keep tracking!")
	}
	return advice
}
