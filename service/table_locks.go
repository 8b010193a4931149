package service

import "sync"

// TableLocks serializes settlements and ownership mutations per table.
// Two concurrent wagers against the same table must not both read a
// stale bankroll; operations on different tables proceed in parallel.
// The database row lock taken inside the unit of work covers races
// across processes; this registry keeps intra-process contention off
// the database.
type TableLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewTableLocks creates an empty lock registry
func NewTableLocks() *TableLocks {
	return &TableLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for the given table and returns the release
// function. Lock entries are never removed; the set of tables is small
// and stable.
func (l *TableLocks) Lock(tableID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[tableID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tableID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
