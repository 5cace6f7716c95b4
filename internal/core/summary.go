package core

import (
	"sort"
	"time"
)

// CategoryShare is one category's slice of the month's expenses.
type CategoryShare struct {
	Category string  `json:"category"`
	Amount   Money   `json:"amount"`
	Percent  float64 `json:"percent"`
}

// MonthlySummary aggregates the transactions of the current calendar
// month. HasData is false when no transaction falls in the month; all
// other fields are zero in that case.
type MonthlySummary struct {
	HasData     bool            `json:"has_data"`
	Income      Money           `json:"income"`
	Expenses    Money           `json:"expenses"`
	Balance     Money           `json:"balance"`
	ByCategory  []CategoryShare `json:"by_category,omitempty"`
	TopExpenses []Transaction   `json:"top_expenses,omitempty"`
}

// topExpenseCount limits the "largest expenses" list in the summary.
const topExpenseCount = 5

// ComputeMonthlySummary filters to transactions dated on or after the
// first calendar day of now's month and aggregates them. Category
// shares are percentages of total expenses; the top expense list is
// sorted descending by amount with insertion order preserved on ties.
func ComputeMonthlySummary(txns []Transaction, now time.Time) MonthlySummary {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var month []Transaction
	for _, t := range txns {
		if t.Date.IsZero() || t.Date.Before(firstOfMonth) {
			continue
		}
		month = append(month, t)
	}
	if len(month) == 0 {
		return MonthlySummary{}
	}

	s := MonthlySummary{HasData: true}
	byCategory := make(map[string]Money)
	var categories []string // first-seen order
	var expenses []Transaction

	for _, t := range month {
		if t.Type == Income {
			s.Income = s.Income.Add(t.Amount)
			continue
		}
		s.Expenses = s.Expenses.Add(t.Amount)
		if _, seen := byCategory[t.Category]; !seen {
			categories = append(categories, t.Category)
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		expenses = append(expenses, t)
	}
	s.Balance = s.Income.Sub(s.Expenses)

	for _, cat := range categories {
		share := CategoryShare{Category: cat, Amount: byCategory[cat]}
		if s.Expenses.Cents > 0 {
			share.Percent = Round1(share.Amount.Float() / s.Expenses.Float() * 100)
		}
		s.ByCategory = append(s.ByCategory, share)
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.Cents > expenses[j].Amount.Cents
	})
	if len(expenses) > topExpenseCount {
		expenses = expenses[:topExpenseCount]
	}
	s.TopExpenses = expenses

	return s
}
