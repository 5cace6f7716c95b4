// Package store owns the in-memory ledger: per-user profile,
// transaction, goal and investment collections behind one lock.
//
// The store is deliberately tolerant: no operation fails for a missing
// user or item. Absence comes back as zero values or empty slices, and
// deletes are idempotent. Callers needing strict lookups wrap GetUser
// themselves (see services.Ledger.UserData).
package store

import (
	"strconv"
	"sync"
	"time"

	"finguide/internal/core"
)

// State is the store's full contents, used wholesale by the snapshot
// codec. Map keys are user ids.
type State struct {
	Users        map[int64]core.Profile       `json:"users"`
	Transactions map[int64][]core.Transaction `json:"transactions"`
	Goals        map[int64][]core.Goal        `json:"goals"`
	Investments  map[int64][]core.Investment  `json:"investments"`
}

// Store keeps every user's ledger in memory. A single RWMutex
// serializes all mutations while letting reads proceed concurrently;
// snapshot export/replace takes the write lock so no request can
// observe a half-replaced state.
type Store struct {
	mu           sync.RWMutex
	users        map[int64]core.Profile
	transactions map[int64][]core.Transaction
	goals        map[int64][]core.Goal
	investments  map[int64][]core.Investment
}

func New() *Store {
	return &Store{
		users:        make(map[int64]core.Profile),
		transactions: make(map[int64][]core.Transaction),
		goals:        make(map[int64][]core.Goal),
		investments:  make(map[int64][]core.Investment),
	}
}

// GetUser returns the profile and whether it exists. Callers decide
// whether to materialize defaults for absent users.
func (s *Store) GetUser(id int64) (core.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.users[id]
	return p, ok
}

// PutUser fully replaces the profile, upsert semantics.
func (s *Store) PutUser(id int64, p core.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UserID = id
	s.users[id] = p
}

// EnsureUser stores the profile only when the user is absent and
// reports whether it did. Check and insert happen under one lock so
// two first contacts for the same user cannot both seed.
func (s *Store) EnsureUser(id int64, p core.Profile) (core.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[id]; ok {
		return existing, false
	}
	p.UserID = id
	s.users[id] = p
	return p, true
}

// DeleteUser removes the profile and cascades to all owned
// collections. Deleting an unknown user is a no-op.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	delete(s.transactions, id)
	delete(s.goals, id)
	delete(s.investments, id)
}

// Transactions returns the user's transactions in insertion order.
// The slice is a copy; mutating it does not touch the store.
func (s *Store) Transactions(id int64) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.transactions[id]...)
}

// AddTransaction appends the transaction, assigning a
// timestamp-derived id when the caller did not supply one. Uniqueness
// of generated ids is best-effort, matching the original behavior.
// When the owner has a profile and fold is non-nil, the profile is
// rewritten as fold(profile) in the same lock acquisition, so two
// concurrent writes for one user can never fold against the same
// stale profile.
func (s *Store) AddTransaction(id int64, t core.Transaction, fold func(core.Profile) core.Profile) core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = core.ID(strconv.FormatInt(time.Now().UnixMilli(), 10))
	}
	if p, ok := s.users[id]; ok && fold != nil {
		s.users[id] = fold(p)
	}
	s.transactions[id] = append(s.transactions[id], t)
	return t
}

// DeleteTransaction removes all transactions whose id matches by
// string comparison. No-op when nothing matches.
func (s *Store) DeleteTransaction(id int64, txnID core.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[id] = removeByID(s.transactions[id], txnID, func(t core.Transaction) core.ID { return t.ID })
}

func (s *Store) Goals(id int64) []core.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Goal(nil), s.goals[id]...)
}

// UpsertGoal replaces the goal with a matching id or appends it.
func (s *Store) UpsertGoal(id int64, g core.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.goals[id] {
		if existing.ID == g.ID {
			s.goals[id][i] = g
			return
		}
	}
	s.goals[id] = append(s.goals[id], g)
}

func (s *Store) DeleteGoal(id int64, goalID core.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[id] = removeByID(s.goals[id], goalID, func(g core.Goal) core.ID { return g.ID })
}

func (s *Store) Investments(id int64) []core.Investment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Investment(nil), s.investments[id]...)
}

// UpsertInvestment replaces the investment with a matching id or
// appends it, then refreshes the owner's investments total while
// still holding the lock.
func (s *Store) UpsertInvestment(id int64, inv core.Investment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.refreshInvestmentsTotalLocked(id)
	for i, existing := range s.investments[id] {
		if existing.ID == inv.ID {
			s.investments[id][i] = inv
			return
		}
	}
	s.investments[id] = append(s.investments[id], inv)
}

func (s *Store) DeleteInvestment(id int64, invID core.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investments[id] = removeByID(s.investments[id], invID, func(inv core.Investment) core.ID { return inv.ID })
	s.refreshInvestmentsTotalLocked(id)
}

// refreshInvestmentsTotalLocked recomputes the profile's investments
// total. Callers must hold the write lock.
func (s *Store) refreshInvestmentsTotalLocked(id int64) {
	p, ok := s.users[id]
	if !ok {
		return
	}
	p.InvestmentsTotal = core.SumInvestments(s.investments[id])
	s.users[id] = p
}

// Export copies the full store contents for serialization.
func (s *Store) Export() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Users:        make(map[int64]core.Profile, len(s.users)),
		Transactions: make(map[int64][]core.Transaction, len(s.transactions)),
		Goals:        make(map[int64][]core.Goal, len(s.goals)),
		Investments:  make(map[int64][]core.Investment, len(s.investments)),
	}
	for id, p := range s.users {
		st.Users[id] = p
	}
	for id, txns := range s.transactions {
		st.Transactions[id] = append([]core.Transaction(nil), txns...)
	}
	for id, goals := range s.goals {
		st.Goals[id] = append([]core.Goal(nil), goals...)
	}
	for id, invs := range s.investments {
		st.Investments[id] = append([]core.Investment(nil), invs...)
	}
	return st
}

// Replace swaps in a previously exported state wholesale. Nil maps in
// the state become empty ones so the store never carries nil maps.
func (s *Store) Replace(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = st.Users
	s.transactions = st.Transactions
	s.goals = st.Goals
	s.investments = st.Investments
	if s.users == nil {
		s.users = make(map[int64]core.Profile)
	}
	if s.transactions == nil {
		s.transactions = make(map[int64][]core.Transaction)
	}
	if s.goals == nil {
		s.goals = make(map[int64][]core.Goal)
	}
	if s.investments == nil {
		s.investments = make(map[int64][]core.Investment)
	}
}

// UserCount reports how many profiles the store holds.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func removeByID[T any](items []T, id core.ID, idOf func(T) core.ID) []T {
	if len(items) == 0 {
		return items
	}
	kept := items[:0]
	for _, item := range items {
		if idOf(item) != id {
			kept = append(kept, item)
		}
	}
	return kept
}
