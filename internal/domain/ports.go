package domain

import "context"

type RoomRepository interface {
	// Write paths
	CreateRoom(ctx context.Context, r Room) error
	UpdateRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, id string, available bool) error

	// Read paths
	GetRoom(ctx context.Context, id string) (Room, error)
	GetRoomByNumber(ctx context.Context, number string) (Room, error)
	ListRooms(ctx context.Context, f RoomFilter) ([]Room, error)
	CountRooms(ctx context.Context, f RoomFilter) (int64, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) error
	UpdateBooking(ctx context.Context, b Booking) error
	DeleteBooking(ctx context.Context, id string) error

	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]Booking, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// Notifier delivers a short message to a phone number or address.
// Implementations are best-effort; callers must never let a send failure
// abort a booking.
type Notifier interface {
	Send(ctx context.Context, to, message string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
