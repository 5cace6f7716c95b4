package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, time.Second},
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, maxBackoff},
		{20, maxBackoff},
	}
	for _, tc := range cases {
		if got := exponentialBackoff(tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: expected %v, got %v", tc.attempt, tc.want, got)
		}
	}
}

func TestIsConnectionError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("Exception (501) Reason: \"connection closed\""), true},
		{errors.New("read: unexpected EOF"), true},
		{errors.New("write: broken pipe"), true},
		{errors.New("use of closed network connection"), true},
		{errors.New("access refused for user"), false},
		{errors.New("NOT_FOUND - no queue"), false},
	}
	for _, tc := range cases {
		if got := isConnectionError(tc.err); got != tc.want {
			t.Fatalf("%v: expected %v, got %v", tc.err, tc.want, got)
		}
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	c := &Client{}

	for i := 0; i < maxFailures-1; i++ {
		c.recordFailure()
		if c.isCircuitOpen() {
			t.Fatalf("circuit opened after %d failures", i+1)
		}
	}
	c.recordFailure()
	if !c.isCircuitOpen() {
		t.Fatalf("circuit should be open after %d failures", maxFailures)
	}
}

func TestCircuitBreakerResetsOnSuccess(t *testing.T) {
	c := &Client{}
	for i := 0; i < maxFailures; i++ {
		c.recordFailure()
	}
	c.recordSuccess()
	if c.isCircuitOpen() {
		t.Fatalf("success should close the circuit")
	}
	// The failure count starts over too.
	c.recordFailure()
	if c.isCircuitOpen() {
		t.Fatalf("single failure after reset should not open the circuit")
	}
}

func TestCircuitBreakerHalfOpenAfterTimeout(t *testing.T) {
	c := &Client{}
	for i := 0; i < maxFailures; i++ {
		c.recordFailure()
	}
	// Backdate the last failure past the open timeout.
	c.mu.Lock()
	c.lastFailure = time.Now().Add(-openTimeout - time.Second)
	c.mu.Unlock()

	if c.isCircuitOpen() {
		t.Fatalf("expired circuit should allow a probe")
	}
	if c.state != StateHalfOpen {
		t.Fatalf("expected half-open state, got %d", c.state)
	}
}

func TestPublishFailsFastWhenCircuitOpen(t *testing.T) {
	c := &Client{}
	for i := 0; i < maxFailures; i++ {
		c.recordFailure()
	}

	err := c.PublishLedgerEvent(context.Background(), NewLedgerEventMessage(1, EntityTransaction, OpCreate, "t1"))
	if err == nil || !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Fatalf("expected circuit breaker error, got %v", err)
	}
}

func TestPublishRespectsCancelledContext(t *testing.T) {
	c := &Client{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.PublishLedgerEvent(ctx, NewLedgerEventMessage(1, EntityGoal, OpUpdate, "g1"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLedgerEventMessageJSON(t *testing.T) {
	msg := NewLedgerEventMessage(123456, EntityInvestment, OpDelete, "inv_1")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("not valid json: %v", err)
	}
	for _, key := range []string{"user_id", "entity", "op", "item_id", "timestamp"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing field %q in %s", key, data)
		}
	}

	back, err := LedgerEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.UserID != 123456 || back.Entity != EntityInvestment || back.Op != OpDelete || back.ItemID != "inv_1" {
		t.Fatalf("round trip: %+v", back)
	}
	if back.Timestamp.IsZero() {
		t.Fatalf("timestamp lost")
	}

	if _, err := LedgerEventMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
