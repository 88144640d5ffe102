package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelhub/internal/domain"
)

func TestOccupancy(t *testing.T) {
	ctx := context.Background()

	t.Run("rate over total rooms", func(t *testing.T) {
		store := newMemStore()
		for i := 0; i < 10; i++ {
			r := domain.Room{ID: string(rune('a' + i)), Number: string(rune('A' + i)), Beds: 1,
				Type: domain.RoomSingle, Available: i >= 3}
			require.NoError(t, store.CreateRoom(ctx, r))
		}

		svc := NewReportService(store, store)
		rep, err := svc.Occupancy(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(10), rep.TotalRooms)
		assert.Equal(t, int64(3), rep.OccupiedRooms)
		assert.InDelta(t, 30.0, rep.OccupancyRate, 0.001)
	})

	t.Run("empty inventory", func(t *testing.T) {
		store := newMemStore()
		svc := NewReportService(store, store)
		rep, err := svc.Occupancy(ctx)
		require.NoError(t, err)
		assert.Zero(t, rep.OccupancyRate)
	})
}

func TestRevenueFor(t *testing.T) {
	now := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	at := func(month time.Month, day int) time.Time {
		return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
	}
	paid := []domain.Booking{
		{Price: 100, BookedAt: at(time.May, 5)},
		{Price: 200, BookedAt: at(time.April, 1)},  // same quarter
		{Price: 50, BookedAt: at(time.January, 2)}, // earlier quarter
		{Price: 999, BookedAt: at(time.June, 1)},   // future, ignored
		{Price: 400, BookedAt: time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)}, // last year
	}

	rep := revenueFor(paid, now)
	assert.InDelta(t, 100.0, rep.Monthly, 0.001)
	assert.InDelta(t, 300.0, rep.Quarterly, 0.001)
	assert.InDelta(t, 350.0, rep.Annual, 0.001)
	assert.Equal(t, "May", rep.MonthlyBreakdown[4].Month)
	assert.InDelta(t, 100.0, rep.MonthlyBreakdown[4].Amount, 0.001)
	assert.InDelta(t, 50.0, rep.MonthlyBreakdown[0].Amount, 0.001)
}

func TestBookedRoomsFor(t *testing.T) {
	now := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	rooms := []domain.Room{
		{ID: "r1", Number: "101"},
		{ID: "r2", Number: "102"},
	}
	end := now.AddDate(0, 0, 7)
	active := []domain.Booking{
		{RoomID: "r1", Name: "Amina", StartDate: now.AddDate(0, 0, -3), EndDate: &end},
		{RoomID: "r2", Name: "Joel", StartDate: now.AddDate(0, 0, -1)},         // open ended
		{RoomID: "r1", Name: "Later", StartDate: now.AddDate(0, 0, 2)},         // not started
		{RoomID: "gone", Name: "Ghost", StartDate: now.AddDate(0, 0, -1)},      // room removed
	}

	rows := bookedRoomsFor(active, rooms, now)
	require.Len(t, rows, 2)

	assert.Equal(t, "101", rows[0].RoomNumber)
	assert.Equal(t, "Amina", rows[0].OccupantName)
	require.NotNil(t, rows[0].CheckOut)
	assert.Equal(t, 7, rows[0].DaysLeft)

	assert.Equal(t, "102", rows[1].RoomNumber)
	assert.Nil(t, rows[1].CheckOut, "open ended stays have no checkout")
	assert.Equal(t, 365, rows[1].DaysLeft)
}

func TestPopularRoomsFor(t *testing.T) {
	rooms := []domain.Room{
		{ID: "r1", Number: "101"},
		{ID: "r2", Number: "102"},
		{ID: "r3", Number: "103"},
	}
	bookings := []domain.Booking{
		{RoomID: "r1", Price: 100},
		{RoomID: "r1", Price: 100},
		{RoomID: "r2", Price: 500},
		{RoomID: "r3", Price: 100},
		{RoomID: "r3", Price: 50},
		{RoomID: "gone", Price: 9999}, // deleted room, skipped
	}

	rows := popularRoomsFor(bookings, rooms)
	require.Len(t, rows, 3)
	// r1 and r3 tie on count; r1 wins on revenue.
	assert.Equal(t, "101", rows[0].Room.Number)
	assert.Equal(t, 2, rows[0].BookingCount)
	assert.InDelta(t, 200.0, rows[0].Revenue, 0.001)
	assert.Equal(t, "103", rows[1].Room.Number)
	assert.Equal(t, "102", rows[2].Room.Number)
}

func TestPopularRoomsTopFive(t *testing.T) {
	var rooms []domain.Room
	var bookings []domain.Booking
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		rooms = append(rooms, domain.Room{ID: id, Number: id})
		for j := 0; j <= i; j++ {
			bookings = append(bookings, domain.Booking{RoomID: id, Price: 10})
		}
	}

	rows := popularRoomsFor(bookings, rooms)
	require.Len(t, rows, 5)
	assert.Equal(t, 8, rows[0].BookingCount)
	assert.Equal(t, 4, rows[4].BookingCount)
}

func TestReportQueries(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.CreateRoom(ctx, domain.Room{ID: "r1", Number: "101", Beds: 1, Type: domain.RoomSingle}))
	require.NoError(t, store.CreateBooking(ctx, domain.Booking{
		ID: "b1", RoomID: "r1", Name: "Amina", Price: 300,
		Status:        domain.BookingConfirmed,
		PaymentStatus: domain.PaymentPaid,
		StartDate:     time.Now().AddDate(0, 0, -1),
		BookedAt:      time.Now(),
	}))
	require.NoError(t, store.CreateBooking(ctx, domain.Booking{
		ID: "b2", RoomID: "r1", Name: "Joel", Price: 100,
		Status:        domain.BookingCancelled,
		PaymentStatus: domain.PaymentUnpaid,
		BookedAt:      time.Now(),
	}))

	svc := NewReportService(store, store)

	rev, err := svc.Revenue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, rev.Annual, 0.001, "only paid bookings count")

	rows, err := svc.BookedRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Amina", rows[0].OccupantName)

	popular, err := svc.PopularRooms(ctx)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, 2, popular[0].BookingCount)
}
