package app

import "sync"

// roomLocks hands out one mutex per room ID so that the availability
// check and the availability write of a booking operation are atomic with
// respect to other bookings of the same room. Entries are refcounted and
// dropped once the last holder releases, keeping the map bounded by the
// number of rooms currently being operated on.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*roomLock)}
}

func (r *roomLocks) lock(roomID string) {
	r.mu.Lock()
	l, ok := r.locks[roomID]
	if !ok {
		l = &roomLock{}
		r.locks[roomID] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
}

func (r *roomLocks) unlock(roomID string) {
	r.mu.Lock()
	l := r.locks[roomID]
	l.refs--
	if l.refs == 0 {
		delete(r.locks, roomID)
	}
	r.mu.Unlock()

	l.mu.Unlock()
}
