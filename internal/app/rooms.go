package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hostelhub/internal/domain"
)

// availableRoomsKey caches the public available-rooms listing. Every room
// mutation and every booking transition invalidates it.
const availableRoomsKey = "rooms:available"

type RoomService struct {
	rooms    domain.RoomRepository
	bookings domain.BookingRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewRoomService(rooms domain.RoomRepository, bookings domain.BookingRepository, cache domain.Cache, ttl time.Duration) *RoomService {
	return &RoomService{rooms: rooms, bookings: bookings, cache: cache, cacheTTL: ttl}
}

func (s *RoomService) Create(ctx context.Context, r domain.Room) (domain.Room, error) {
	if err := validateRoom(r); err != nil {
		return domain.Room{}, err
	}

	_, err := s.rooms.GetRoomByNumber(ctx, r.Number)
	if err == nil {
		return domain.Room{}, domain.Conflictf("room %s already exists", r.Number)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Room{}, err
	}

	r.ID = uuid.NewString()
	if err := s.rooms.CreateRoom(ctx, r); err != nil {
		return domain.Room{}, err
	}
	s.invalidateListing(ctx)
	return r, nil
}

func (s *RoomService) Update(ctx context.Context, id string, p domain.RoomPatch) (domain.Room, error) {
	r, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}

	if p.Number != nil && *p.Number != r.Number {
		if _, err := s.rooms.GetRoomByNumber(ctx, *p.Number); err == nil {
			return domain.Room{}, domain.Conflictf("room %s already exists", *p.Number)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return domain.Room{}, err
		}
		r.Number = *p.Number
	}
	applyRoomPatch(&r, p)

	if err := validateRoom(r); err != nil {
		return domain.Room{}, err
	}
	if err := s.rooms.UpdateRoom(ctx, r); err != nil {
		return domain.Room{}, err
	}
	s.invalidateListing(ctx)
	return r, nil
}

func (s *RoomService) Delete(ctx context.Context, id string) error {
	if _, err := s.rooms.GetRoom(ctx, id); err != nil {
		return err
	}

	active, err := s.bookings.ListBookings(ctx, domain.BookingFilter{
		RoomID:   id,
		Statuses: []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed},
	})
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return domain.Conflictf("room has %d active booking(s)", len(active))
	}

	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.invalidateListing(ctx)
	return nil
}

func (s *RoomService) Get(ctx context.Context, id string) (domain.Room, error) {
	return s.rooms.GetRoom(ctx, id)
}

// List serves the available-only listing through the cache; a stale entry
// of at most cacheTTL is acceptable on this read path.
func (s *RoomService) List(ctx context.Context, f domain.RoomFilter) ([]domain.Room, error) {
	if !f.OnlyAvailable || s.cache == nil {
		return s.rooms.ListRooms(ctx, f)
	}

	var cached []domain.Room
	if ok, _ := s.cache.Get(ctx, availableRoomsKey, &cached); ok {
		return cached, nil
	}
	rooms, err := s.rooms.ListRooms(ctx, f)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, availableRoomsKey, rooms, int(s.cacheTTL.Seconds()))
	return rooms, nil
}

func (s *RoomService) invalidateListing(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, availableRoomsKey)
	}
}

func validateRoom(r domain.Room) error {
	var missing []string
	if r.Number == "" {
		missing = append(missing, "number")
	}
	if r.Beds <= 0 {
		missing = append(missing, "beds")
	}
	if r.Type == "" {
		missing = append(missing, "type")
	}
	if r.BasePrice < 0 {
		missing = append(missing, "basePrice")
	}
	if len(missing) > 0 {
		return domain.Invalid(missing...)
	}
	return nil
}

func applyRoomPatch(r *domain.Room, p domain.RoomPatch) {
	if p.Beds != nil {
		r.Beds = *p.Beds
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Floor != nil {
		r.Floor = *p.Floor
	}
	if p.SelfContained != nil {
		r.SelfContained = *p.SelfContained
	}
	if p.Balcony != nil {
		r.Balcony = *p.Balcony
	}
	if p.Available != nil {
		r.Available = *p.Available
	}
	if p.BasePrice != nil {
		r.BasePrice = *p.BasePrice
	}
	if p.SeasonalPrice != nil {
		r.SeasonalPrice = *p.SeasonalPrice
	}
	if p.UnderMaintenance != nil {
		r.UnderMaintenance = *p.UnderMaintenance
	}
	if p.Amenities != nil {
		r.Amenities = p.Amenities
	}
}
