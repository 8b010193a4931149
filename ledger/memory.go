package ledger

import (
	"context"
	"fmt"
	"sync"

	"casino/models"

	"github.com/google/uuid"
)

// InMemory is a process-local ledger used in development and tests.
// It honors the same idempotency contract as the remote ledger: a
// transaction id is applied at most once.
type InMemory struct {
	mu       sync.Mutex
	balances map[int64]int64
	applied  map[uuid.UUID]bool
}

// NewInMemory creates an empty in-memory ledger
func NewInMemory() *InMemory {
	return &InMemory{
		balances: make(map[int64]int64),
		applied:  make(map[uuid.UUID]bool),
	}
}

// Deposit seeds a balance outside the idempotency contract
func (l *InMemory) Deposit(playerID, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[playerID] += amount
}

// Balance returns a player's current balance
func (l *InMemory) Balance(playerID int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[playerID]
}

// Debit removes points from a player's balance
func (l *InMemory) Debit(_ context.Context, playerID, amount int64, txID uuid.UUID) error {
	if amount < 0 {
		return fmt.Errorf("ledger amount cannot be negative: %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.applied[txID] {
		return nil
	}
	if l.balances[playerID] < amount {
		return fmt.Errorf("player %d: %w", playerID, models.ErrInsufficientFunds)
	}
	l.balances[playerID] -= amount
	l.applied[txID] = true
	return nil
}

// Credit adds points to a player's balance
func (l *InMemory) Credit(_ context.Context, playerID, amount int64, txID uuid.UUID) error {
	if amount < 0 {
		return fmt.Errorf("ledger amount cannot be negative: %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.applied[txID] {
		return nil
	}
	l.balances[playerID] += amount
	l.applied[txID] = true
	return nil
}
