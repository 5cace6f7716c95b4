package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxnType = "income"
	Expense TxnType = "expense"
)

// Wire formats inherited from the original web app: goals and investments
// carry calendar dates, transactions carry a display-formatted timestamp.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "02.01.2006, 15:04"
)

type (
	TxnType string

	// Date is a calendar date serialized as YYYY-MM-DD.
	Date struct {
		time.Time
	}

	// Timestamp is a point in time serialized in the display format
	// used by transaction records ("31.01.2024, 10:00").
	Timestamp struct {
		time.Time
	}

	// Profile is one user's financial snapshot. SavingsPercent and
	// InvestmentsTotal are derived fields, recomputed on every write
	// path and stored alongside the raw fields.
	Profile struct {
		UserID            int64   `json:"user_id"`
		Username          string  `json:"username,omitempty"`
		FirstName         string  `json:"first_name,omitempty"`
		JoinDate          Date    `json:"join_date,omitempty"`
		Balance           Money   `json:"balance"`
		MonthlyIncome     Money   `json:"monthly_income"`
		MonthlyExpenses   Money   `json:"monthly_expenses"`
		SavingsPercent    float64 `json:"savings_percent"`
		InvestmentsTotal  Money   `json:"investments_total"`
		FinancialHealth   int     `json:"financial_health"`
		MainGoal          string  `json:"main_goal"`
		SavingsGoal       Money   `json:"savings_goal"`
		InvestmentPercent float64 `json:"investment_percent"`
	}

	Transaction struct {
		ID          ID        `json:"id"`
		Type        TxnType   `json:"type"`
		Category    string    `json:"category"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Date        Timestamp `json:"date"`
	}

	// Goal carries three derived fields (Progress, DaysLeft, Daily),
	// refreshed by GoalDerived on every save.
	Goal struct {
		ID       ID      `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Current  Money   `json:"current"`
		Target   Money   `json:"target"`
		Progress float64 `json:"progress"`
		DaysLeft int     `json:"days_left"`
		Deadline Date    `json:"deadline"`
		Daily    Money   `json:"daily"`
		Created  Date    `json:"created"`
	}

	// Investment derived fields are Profit and ProfitPercent.
	Investment struct {
		ID            ID      `json:"id"`
		Name          string  `json:"name"`
		Type          string  `json:"type"`
		Amount        Money   `json:"amount"`
		Count         string  `json:"count"`
		Invested      Money   `json:"invested"`
		Profit        Money   `json:"profit"`
		ProfitPercent float64 `json:"profit_percent"`
		BuyDate       Date    `json:"buy_date"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidTarget   = errors.New("invalid target amount")
	ErrInvalidDeadline = errors.New("invalid deadline")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ts.Format(TimestampLayout) + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}

func (t Transaction) Validate() error {
	switch t.Type {
	case Income, Expense:
	default:
		return ErrInvalidType
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	if g.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	return nil
}

func (inv Investment) Validate() error {
	if len(strings.TrimSpace(inv.Name)) == 0 {
		return ErrEmptyName
	}
	if inv.Amount.Cents < 0 || inv.Invested.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
