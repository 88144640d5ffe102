package app

import (
	"context"
	"sort"
	"time"

	"hostelhub/internal/domain"
)

// ReportService derives occupancy and revenue aggregates from persisted
// state. Everything is recomputed on each call; reads tolerate slightly
// stale snapshots and never mutate.
type ReportService struct {
	rooms    domain.RoomRepository
	bookings domain.BookingRepository
	now      func() time.Time
}

func NewReportService(rooms domain.RoomRepository, bookings domain.BookingRepository) *ReportService {
	return &ReportService{rooms: rooms, bookings: bookings, now: time.Now}
}

type OccupancyReport struct {
	TotalRooms    int64
	OccupiedRooms int64
	OccupancyRate float64
}

type MonthRevenue struct {
	Month  string
	Amount float64
}

type RevenueReport struct {
	Monthly          float64
	Quarterly        float64
	Annual           float64
	MonthlyBreakdown [12]MonthRevenue
}

type BookedRoom struct {
	RoomNumber   string
	OccupantName string
	CheckIn      time.Time
	CheckOut     *time.Time // nil = indefinite stay
	DaysLeft     int
}

type PopularRoom struct {
	Room         domain.Room
	BookingCount int
	Revenue      float64
}

func (s *ReportService) Occupancy(ctx context.Context) (OccupancyReport, error) {
	total, err := s.rooms.CountRooms(ctx, domain.RoomFilter{})
	if err != nil {
		return OccupancyReport{}, err
	}
	available, err := s.rooms.CountRooms(ctx, domain.RoomFilter{OnlyAvailable: true})
	if err != nil {
		return OccupancyReport{}, err
	}

	occupied := total - available
	rep := OccupancyReport{TotalRooms: total, OccupiedRooms: occupied}
	if total > 0 {
		rep.OccupancyRate = float64(occupied) / float64(total) * 100
	}
	return rep, nil
}

func (s *ReportService) Revenue(ctx context.Context) (RevenueReport, error) {
	paid, err := s.bookings.ListBookings(ctx, domain.BookingFilter{
		Payment: []domain.PaymentStatus{domain.PaymentPaid},
	})
	if err != nil {
		return RevenueReport{}, err
	}
	return revenueFor(paid, s.now()), nil
}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// revenueFor buckets paid bookings by their booking timestamp into the
// current month, quarter and year, plus a per-month breakdown of the
// current year. Quarters are 3-month blocks starting at month floor(m/3)*3.
func revenueFor(paid []domain.Booking, now time.Time) RevenueReport {
	var rep RevenueReport
	for i := range rep.MonthlyBreakdown {
		rep.MonthlyBreakdown[i].Month = monthNames[i]
	}

	year, month := now.Year(), int(now.Month())-1 // zero-based month for quarter math
	quarterStart := time.Date(year, time.Month(month/3*3+1), 1, 0, 0, 0, 0, now.Location())

	for _, b := range paid {
		if b.BookedAt.After(now) || b.BookedAt.Year() != year {
			continue
		}
		rep.Annual += b.Price
		rep.MonthlyBreakdown[int(b.BookedAt.Month())-1].Amount += b.Price
		if int(b.BookedAt.Month())-1 == month {
			rep.Monthly += b.Price
		}
		if !b.BookedAt.Before(quarterStart) {
			rep.Quarterly += b.Price
		}
	}
	return rep
}

// BookedRooms is the current-occupancy snapshot: active bookings already
// started, joined with room numbers. Bookings whose room has been removed
// are skipped.
func (s *ReportService) BookedRooms(ctx context.Context) ([]BookedRoom, error) {
	active, err := s.bookings.ListBookings(ctx, domain.BookingFilter{
		Statuses: []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed},
	})
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListRooms(ctx, domain.RoomFilter{})
	if err != nil {
		return nil, err
	}
	return bookedRoomsFor(active, rooms, s.now()), nil
}

func bookedRoomsFor(active []domain.Booking, rooms []domain.Room, now time.Time) []BookedRoom {
	numbers := make(map[string]string, len(rooms))
	for _, r := range rooms {
		numbers[r.ID] = r.Number
	}

	out := make([]BookedRoom, 0, len(active))
	for _, b := range active {
		if b.StartDate.After(now) {
			continue
		}
		number, ok := numbers[b.RoomID]
		if !ok {
			continue
		}

		// Open-ended stays get a placeholder checkout one year out for the
		// day math; callers surface them as indefinite.
		checkout := now.AddDate(1, 0, 0)
		if b.EndDate != nil {
			checkout = *b.EndDate
		}
		out = append(out, BookedRoom{
			RoomNumber:   number,
			OccupantName: b.Name,
			CheckIn:      b.StartDate,
			CheckOut:     b.EndDate,
			DaysLeft:     domain.StayDays(now, checkout),
		})
	}
	return out
}

// PopularRooms ranks rooms by booking count, ties broken by revenue, and
// returns the top five with room details joined in.
func (s *ReportService) PopularRooms(ctx context.Context) ([]PopularRoom, error) {
	all, err := s.bookings.ListBookings(ctx, domain.BookingFilter{})
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListRooms(ctx, domain.RoomFilter{})
	if err != nil {
		return nil, err
	}
	return popularRoomsFor(all, rooms), nil
}

func popularRoomsFor(bookings []domain.Booking, rooms []domain.Room) []PopularRoom {
	byID := make(map[string]domain.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}

	type bucket struct {
		count   int
		revenue float64
	}
	grouped := make(map[string]*bucket)
	for _, b := range bookings {
		g, ok := grouped[b.RoomID]
		if !ok {
			g = &bucket{}
			grouped[b.RoomID] = g
		}
		g.count++
		g.revenue += b.Price
	}

	out := make([]PopularRoom, 0, len(grouped))
	for roomID, g := range grouped {
		room, ok := byID[roomID]
		if !ok {
			continue
		}
		out = append(out, PopularRoom{Room: room, BookingCount: g.count, Revenue: g.revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookingCount != out[j].BookingCount {
			return out[i].BookingCount > out[j].BookingCount
		}
		return out[i].Revenue > out[j].Revenue
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
