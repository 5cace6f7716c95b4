// Package export renders one user's full ledger as a downloadable
// JSON or CSV document. The CSV layout follows the original export: a
// title block, a general-information section, then one section per
// collection with a header row and a data row per item.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"finguide/internal/core"
)

// exportDateLayout matches the original export_date formatting.
const exportDateLayout = "2006-01-02 15:04:05"

// Bundle is everything exported for one user.
type Bundle struct {
	User         core.Profile       `json:"user"`
	Transactions []core.Transaction `json:"transactions"`
	Goals        []core.Goal        `json:"goals"`
	Investments  []core.Investment  `json:"investments"`
	ExportDate   string             `json:"export_date"`
}

// NewBundle assembles a bundle with the export timestamp.
func NewBundle(user core.Profile, txns []core.Transaction, goals []core.Goal, invs []core.Investment, now time.Time) Bundle {
	return Bundle{
		User:         user,
		Transactions: txns,
		Goals:        goals,
		Investments:  invs,
		ExportDate:   now.Format(exportDateLayout),
	}
}

// CSV renders the bundle. Money fields carry the currency symbol as in
// the original export ("25,000 ₽").
func CSV(b Bundle, currency string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	money := func(m core.Money) string { return m.Format(currency) }

	records := [][]string{
		{"User financial data", b.User.FirstName},
		{"Export date:", b.ExportDate},
		{},
		{"GENERAL INFORMATION"},
		{"Balance:", money(b.User.Balance)},
		{"Income (month):", money(b.User.MonthlyIncome)},
		{"Expenses (month):", money(b.User.MonthlyExpenses)},
		{"Savings:", fmt.Sprintf("%.1f%%", b.User.SavingsPercent)},
		{"Investments:", money(b.User.InvestmentsTotal)},
		{},
		{"TRANSACTIONS"},
		{"Date", "Type", "Category", "Amount", "Description"},
	}

	for _, t := range b.Transactions {
		kind := "Expense"
		if t.Type == core.Income {
			kind = "Income"
		}
		date := ""
		if !t.Date.IsZero() {
			date = t.Date.Format(core.TimestampLayout)
		}
		records = append(records, []string{date, kind, t.Category, money(t.Amount), t.Description})
	}

	records = append(records,
		[]string{},
		[]string{"FINANCIAL GOALS"},
		[]string{"Name", "Category", "Current/Target", "Progress", "Deadline"},
	)
	for _, g := range b.Goals {
		deadline := ""
		if !g.Deadline.IsZero() {
			deadline = g.Deadline.Format(core.DateLayout)
		}
		records = append(records, []string{
			g.Name,
			g.Category,
			fmt.Sprintf("%s / %s", money(g.Current), money(g.Target)),
			fmt.Sprintf("%.1f%%", g.Progress),
			deadline,
		})
	}

	records = append(records,
		[]string{},
		[]string{"INVESTMENTS"},
		[]string{"Name", "Type", "Current value", "Invested", "Profit", "Buy date"},
	)
	for _, inv := range b.Investments {
		sign := ""
		if inv.Profit.Cents >= 0 {
			sign = "+"
		}
		buyDate := ""
		if !inv.BuyDate.IsZero() {
			buyDate = inv.BuyDate.Format(core.DateLayout)
		}
		records = append(records, []string{
			inv.Name,
			inv.Type,
			money(inv.Amount),
			money(inv.Invested),
			fmt.Sprintf("%s%s (%.1f%%)", sign, money(inv.Profit), inv.ProfitPercent),
			buyDate,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
