package bill

import "sync"

// billLocks hands out one mutex per bill ID so that all mutations of a
// bill's obligation set are serialized. Entries are never removed; the map
// grows with the number of distinct bills mutated by this process.
type billLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newBillLocks() *billLocks {
	return &billLocks{locks: make(map[int64]*sync.Mutex)}
}

// acquire locks the mutex for billID and returns the unlock func
func (l *billLocks) acquire(billID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[billID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[billID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
