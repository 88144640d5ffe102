package app

import (
	"context"
	"sort"
	"sync"

	"hostelhub/internal/domain"
)

// memStore is an in-memory implementation of the repository ports, safe
// for concurrent use so the locking behavior of the services can be
// exercised from parallel goroutines.
type memStore struct {
	mu       sync.Mutex
	rooms    map[string]domain.Room
	bookings map[string]domain.Booking
	users    map[string]domain.User

	failSetAvailability bool
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    map[string]domain.Room{},
		bookings: map[string]domain.Booking{},
		users:    map[string]domain.User{},
	}
}

func (m *memStore) CreateRoom(_ context.Context, r domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.ID] = r
	return nil
}

func (m *memStore) UpdateRoom(_ context.Context, r domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[r.ID]; !ok {
		return domain.ErrNotFound
	}
	m.rooms[r.ID] = r
	return nil
}

func (m *memStore) DeleteRoom(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rooms, id)
	return nil
}

func (m *memStore) SetAvailability(_ context.Context, id string, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSetAvailability {
		return domain.Unavailable(context.DeadlineExceeded)
	}
	r, ok := m.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Available = available
	m.rooms[id] = r
	return nil
}

func (m *memStore) GetRoom(_ context.Context, id string) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memStore) GetRoomByNumber(_ context.Context, number string) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.Number == number {
			return r, nil
		}
	}
	return domain.Room{}, domain.ErrNotFound
}

func (m *memStore) ListRooms(_ context.Context, f domain.RoomFilter) ([]domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Room
	for _, r := range m.rooms {
		if f.OnlyAvailable && !r.Available {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memStore) CountRooms(ctx context.Context, f domain.RoomFilter) (int64, error) {
	rooms, _ := m.ListRooms(ctx, f)
	return int64(len(rooms)), nil
}

func (m *memStore) CreateBooking(_ context.Context, b domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	return nil
}

func (m *memStore) UpdateBooking(_ context.Context, b domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return domain.ErrNotFound
	}
	m.bookings[b.ID] = b
	return nil
}

func (m *memStore) DeleteBooking(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memStore) GetBooking(_ context.Context, id string) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (m *memStore) ListBookings(_ context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if f.RoomID != "" && b.RoomID != f.RoomID {
			continue
		}
		if f.OwnerID != "" {
			id, ok := b.Owner.UserID()
			if !ok || id != f.OwnerID {
				continue
			}
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status) {
			continue
		}
		if len(f.Payment) > 0 && !containsPayment(f.Payment, b.PaymentStatus) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.After(out[j].BookedAt) })
	return out, nil
}

func containsStatus(ss []domain.BookingStatus, s domain.BookingStatus) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func containsPayment(ps []domain.PaymentStatus, p domain.PaymentStatus) bool {
	for _, v := range ps {
		if v == p {
			return true
		}
	}
	return false
}

func (m *memStore) CreateUser(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memStore) GetUser(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type memQueue struct {
	mu       sync.Mutex
	messages []string
}

func (q *memQueue) Enqueue(_, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, message)
}

func (q *memQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}
