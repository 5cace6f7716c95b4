package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	cases := []struct {
		name string
		txn  Transaction
		err  error
	}{
		{"valid income", Transaction{Type: Income, Amount: FromUnits(10)}, nil},
		{"valid expense", Transaction{Type: Expense, Amount: FromUnits(10)}, nil},
		{"zero amount ok", Transaction{Type: Expense}, nil},
		{"bad type", Transaction{Type: "transfer", Amount: FromUnits(10)}, ErrInvalidType},
		{"empty type", Transaction{Amount: FromUnits(10)}, ErrInvalidType},
		{"negative amount", Transaction{Type: Income, Amount: FromUnits(-5)}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		if err := tc.txn.Validate(); !errors.Is(err, tc.err) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.err, err)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	deadline := Date{Time: time.Now().AddDate(0, 0, 30)}
	cases := []struct {
		name string
		goal Goal
		err  error
	}{
		{"valid", Goal{Name: "fund", Target: FromUnits(100), Deadline: deadline}, nil},
		{"blank name", Goal{Name: "  ", Target: FromUnits(100), Deadline: deadline}, ErrEmptyName},
		{"zero target", Goal{Name: "fund", Deadline: deadline}, ErrInvalidTarget},
		{"negative current", Goal{Name: "fund", Target: FromUnits(100), Current: FromUnits(-1), Deadline: deadline}, ErrInvalidAmount},
		{"missing deadline", Goal{Name: "fund", Target: FromUnits(100)}, ErrInvalidDeadline},
	}
	for _, tc := range cases {
		if err := tc.goal.Validate(); !errors.Is(err, tc.err) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.err, err)
		}
	}
}

func TestInvestmentValidate(t *testing.T) {
	cases := []struct {
		name string
		inv  Investment
		err  error
	}{
		{"valid", Investment{Name: "LUKOIL", Amount: FromUnits(10), Invested: FromUnits(5)}, nil},
		{"blank name", Investment{Name: "", Amount: FromUnits(10)}, ErrEmptyName},
		{"negative amount", Investment{Name: "x", Amount: FromUnits(-1)}, ErrInvalidAmount},
		{"negative invested", Investment{Name: "x", Invested: FromUnits(-1)}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		if err := tc.inv.Validate(); !errors.Is(err, tc.err) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.err, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 1, 31)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-01-31"` {
		t.Fatalf("expected 2024-01-31, got %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip: %v vs %v", back, d)
	}

	zero, _ := json.Marshal(Date{})
	if string(zero) != `""` {
		t.Fatalf("zero date: expected empty string, got %s", zero)
	}
	var empty Date
	if err := json.Unmarshal([]byte(`""`), &empty); err != nil || !empty.IsZero() {
		t.Fatalf("empty string should decode to zero date (err=%v)", err)
	}
}

func TestTimestampJSON(t *testing.T) {
	ts := Timestamp{Time: time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"31.01.2024, 10:00"` {
		t.Fatalf("expected display format, got %s", data)
	}

	var back Timestamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(ts.Time) {
		t.Fatalf("round trip: %v vs %v", back, ts)
	}
}
