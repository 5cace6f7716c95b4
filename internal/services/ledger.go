// Package services orchestrates ledger operations across the
// in-memory store, the derived-metric calculators and the optional
// AMQP event publisher.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"finguide/internal/amqp"
	"finguide/internal/core"
	applog "finguide/internal/log"
	"finguide/internal/store"
)

// ErrNotFound reports a strict lookup of an unknown user. The store
// itself never errors on absence; this wrapper does.
var ErrNotFound = errors.New("user not found")

// ErrUnknownItemKind reports a delete request for an unsupported item
// kind.
var ErrUnknownItemKind = errors.New("unknown item kind")

// Item kinds accepted by DeleteItem.
const (
	KindTransaction = "transaction"
	KindGoal        = "goal"
	KindInvestment  = "investment"
)

// EventPublisher is what the service needs from the AMQP client. Nil
// publishers are tolerated; ledger writes never depend on a broker.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// UserBundle is a profile together with all owned collections, the
// shape returned by the user_data endpoint.
type UserBundle struct {
	core.Profile
	Transactions []core.Transaction `json:"transactions"`
	Goals        []core.Goal        `json:"goals"`
	Investments  []core.Investment  `json:"investments"`
}

// Ledger is the single mutation surface shared by the HTTP router and
// the bot dispatcher.
type Ledger struct {
	store     *store.Store
	publisher EventPublisher
	logger    *applog.Logger
}

func NewLedger(st *store.Store, publisher EventPublisher, logger *applog.Logger) *Ledger {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Ledger{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentLedger),
	}
}

// defaultProfile is the seed handed to users on first contact with the
// bot, carried over from the original dataset.
func defaultProfile(userID int64, username, firstName string, now time.Time) core.Profile {
	return core.Profile{
		UserID:            userID,
		Username:          username,
		FirstName:         firstName,
		JoinDate:          core.Date{Time: now},
		Balance:           core.FromUnits(25000),
		MonthlyIncome:     core.FromUnits(120000),
		MonthlyExpenses:   core.FromUnits(95000),
		SavingsPercent:    20.8,
		InvestmentsTotal:  core.Money{},
		FinancialHealth:   75,
		MainGoal:          "Save up for an apartment",
		SavingsGoal:       core.FromUnits(50000),
		InvestmentPercent: 15,
	}
}

// EnsureUser materializes a default profile on first contact and
// reports whether one was created.
func (l *Ledger) EnsureUser(ctx context.Context, userID int64, username, firstName string) (core.Profile, bool) {
	p, created := l.store.EnsureUser(userID, defaultProfile(userID, username, firstName, time.Now()))
	if !created {
		return p, false
	}
	l.logger.InfoContext(ctx, "Created default profile", applog.FieldUserID, userID)
	l.publish(ctx, amqp.NewLedgerEventMessage(userID, amqp.EntityUser, amqp.OpCreate, ""))
	return p, true
}

// UserData is the strict read: unknown users come back as ErrNotFound
// rather than an empty bundle.
func (l *Ledger) UserData(ctx context.Context, userID int64) (UserBundle, error) {
	p, ok := l.store.GetUser(userID)
	if !ok {
		return UserBundle{}, ErrNotFound
	}
	return UserBundle{
		Profile:      p,
		Transactions: l.store.Transactions(userID),
		Goals:        l.store.Goals(userID),
		Investments:  l.store.Investments(userID),
	}, nil
}

// AddTransaction validates and stores a transaction, folding it into
// the owner's profile totals when a profile exists. Missing fields get
// the original defaults: expense type, "other" category, current time.
func (l *Ledger) AddTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	if t.Type == "" {
		t.Type = core.Expense
	}
	if t.Category == "" {
		t.Category = "other"
	}
	if t.Date.IsZero() {
		t.Date = core.Timestamp{Time: time.Now()}
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t = l.store.AddTransaction(userID, t, func(p core.Profile) core.Profile {
		return core.ApplyTransaction(p, t)
	})

	l.logger.InfoContext(ctx, "Transaction recorded",
		applog.FieldUserID, userID,
		applog.FieldItemID, t.ID.String(),
		applog.FieldAmountCents, t.Amount.Cents,
		"type", string(t.Type))
	l.publish(ctx, amqp.NewLedgerEventMessage(userID, amqp.EntityTransaction, amqp.OpCreate, t.ID.String()))
	return t, nil
}

// SaveGoal validates, recomputes derived fields and upserts the goal.
func (l *Ledger) SaveGoal(ctx context.Context, userID int64, g core.Goal) (core.Goal, error) {
	op := amqp.OpUpdate
	if g.ID.IsZero() {
		g.ID = newID()
		op = amqp.OpCreate
	}
	if g.Created.IsZero() {
		g.Created = core.Date{Time: time.Now()}
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g = core.GoalDerived(g, time.Now())
	l.store.UpsertGoal(userID, g)

	l.logger.InfoContext(ctx, "Goal saved",
		applog.FieldUserID, userID,
		applog.FieldItemID, g.ID.String(),
		"progress", g.Progress,
		"days_left", g.DaysLeft)
	l.publish(ctx, amqp.NewLedgerEventMessage(userID, amqp.EntityGoal, op, g.ID.String()))
	return g, nil
}

// SaveInvestment validates, recomputes derived fields, upserts the
// position and refreshes the profile's investments total.
func (l *Ledger) SaveInvestment(ctx context.Context, userID int64, inv core.Investment) (core.Investment, error) {
	op := amqp.OpUpdate
	if inv.ID.IsZero() {
		inv.ID = newID()
		op = amqp.OpCreate
	}
	if inv.BuyDate.IsZero() {
		inv.BuyDate = core.Date{Time: time.Now()}
	}
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}
	inv = core.InvestmentDerived(inv)
	l.store.UpsertInvestment(userID, inv)

	l.logger.InfoContext(ctx, "Investment saved",
		applog.FieldUserID, userID,
		applog.FieldItemID, inv.ID.String(),
		"profit_percent", inv.ProfitPercent)
	l.publish(ctx, amqp.NewLedgerEventMessage(userID, amqp.EntityInvestment, op, inv.ID.String()))
	return inv, nil
}

// DeleteItem removes one item from the named collection. Deleting an
// id that does not exist is a no-op, per the tolerant store policy.
func (l *Ledger) DeleteItem(ctx context.Context, userID int64, kind string, id core.ID) error {
	var entity string
	switch kind {
	case KindTransaction:
		l.store.DeleteTransaction(userID, id)
		entity = amqp.EntityTransaction
	case KindGoal:
		l.store.DeleteGoal(userID, id)
		entity = amqp.EntityGoal
	case KindInvestment:
		l.store.DeleteInvestment(userID, id)
		entity = amqp.EntityInvestment
	default:
		return fmt.Errorf("%w: %q", ErrUnknownItemKind, kind)
	}

	l.logger.InfoContext(ctx, "Item deleted",
		applog.FieldUserID, userID,
		applog.FieldEntity, entity,
		applog.FieldItemID, id.String())
	l.publish(ctx, amqp.NewLedgerEventMessage(userID, entity, amqp.OpDelete, id.String()))
	return nil
}

// ResetUser wipes the user's entire ledger. Idempotent.
func (l *Ledger) ResetUser(ctx context.Context, userID int64) {
	l.store.DeleteUser(userID)
	l.logger.InfoContext(ctx, "User data reset", applog.FieldUserID, userID)
	l.publish(ctx, amqp.NewLedgerEventMessage(userID, amqp.EntityUser, amqp.OpReset, ""))
}

// MonthlyReport computes the current month's summary plus the advice
// lines derived from it.
func (l *Ledger) MonthlyReport(ctx context.Context, userID int64) (core.MonthlySummary, []string) {
	summary := core.ComputeMonthlySummary(l.store.Transactions(userID), time.Now())
	return summary, core.GenerateAdvice(summary)
}

// Store exposes the underlying store for snapshot export/replace at
// startup and shutdown.
func (l *Ledger) Store() *store.Store {
	return l.store
}

// publish sends a mutation event when a publisher is configured.
// Failures are logged and swallowed: the write already happened.
func (l *Ledger) publish(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishLedgerEvent(ctx, msg); err != nil {
		l.logger.WarnContext(ctx, "Failed to publish ledger event",
			applog.FieldError, err,
			applog.FieldUserID, msg.UserID,
			applog.FieldEntity, msg.Entity)
	}
}

func newID() core.ID {
	return core.ID(strconv.FormatInt(time.Now().UnixMilli(), 10))
}
