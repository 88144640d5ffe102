package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hostelhub/internal/adapters/observability"
	"hostelhub/internal/domain"
)

// NotificationQueue hands a message off for asynchronous delivery. Enqueue
// must never block; the booking path does not wait on the channel.
type NotificationQueue interface {
	Enqueue(to, message string)
}

type BookingService struct {
	rooms    domain.RoomRepository
	bookings domain.BookingRepository
	notify   NotificationQueue
	cache    domain.Cache
	locks    *roomLocks
	now      func() time.Time
}

func NewBookingService(rooms domain.RoomRepository, bookings domain.BookingRepository, notify NotificationQueue, cache domain.Cache) *BookingService {
	return &BookingService{
		rooms:    rooms,
		bookings: bookings,
		notify:   notify,
		cache:    cache,
		locks:    newRoomLocks(),
		now:      time.Now,
	}
}

type CreateBookingInput struct {
	Name           string
	Course         string
	University     string
	CourseDuration string
	StudentID      string
	PersonalPhone  string
	CaretakerPhone string

	RoomID          string
	GroupSize       int
	StartDate       *time.Time
	EndDate         *time.Time
	SpecialRequests string
	Owner           domain.Owner
}

func (in CreateBookingInput) missingFields() []string {
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"name", in.Name},
		{"course", in.Course},
		{"university", in.University},
		{"courseDuration", in.CourseDuration},
		{"studentId", in.StudentID},
		{"personalPhone", in.PersonalPhone},
		{"caretakerPhone", in.CaretakerPhone},
		{"room", in.RoomID},
	} {
		if f.v == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Create books a room. The availability check and the availability write
// run under the room's lock so two callers cannot double-book a single
// room. The room flip happens only after the booking persists; a failed
// flip rolls the booking back.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if missing := in.missingFields(); len(missing) > 0 {
		observability.ObserveBooking("create", "invalid")
		return domain.Booking{}, domain.Invalid(missing...)
	}
	if in.GroupSize <= 0 {
		in.GroupSize = 1
	}

	s.locks.lock(in.RoomID)
	defer s.locks.unlock(in.RoomID)

	room, err := s.rooms.GetRoom(ctx, in.RoomID)
	if err != nil {
		observability.ObserveBooking("create", outcomeOf(err))
		return domain.Booking{}, err
	}
	if !room.Available {
		observability.ObserveBooking("create", "conflict")
		return domain.Booking{}, domain.Conflictf("room %s is not available", room.Number)
	}
	if in.GroupSize > room.Beds {
		observability.ObserveBooking("create", "invalid")
		return domain.Booking{}, domain.Invalid("groupSize")
	}

	now := s.now()
	start := now
	if in.StartDate != nil {
		start = *in.StartDate
	}

	nightly := domain.EffectiveNightlyPrice(room, now)
	price := nightly // single-unit charge for open-ended stays
	if in.StartDate != nil && in.EndDate != nil {
		days := domain.StayDays(start, *in.EndDate)
		if days == 0 {
			observability.ObserveBooking("create", "invalid")
			return domain.Booking{}, domain.Invalid("endDate")
		}
		price = nightly * float64(days)
	}

	b := domain.Booking{
		ID:              uuid.NewString(),
		Owner:           in.Owner,
		Name:            in.Name,
		Course:          in.Course,
		University:      in.University,
		CourseDuration:  in.CourseDuration,
		StudentID:       in.StudentID,
		PersonalPhone:   in.PersonalPhone,
		CaretakerPhone:  in.CaretakerPhone,
		RoomID:          room.ID,
		StartDate:       start,
		EndDate:         in.EndDate,
		Price:           price,
		GroupSize:       in.GroupSize,
		Status:          domain.BookingPending,
		PaymentStatus:   domain.PaymentUnpaid,
		SpecialRequests: in.SpecialRequests,
		BookedAt:        now,
	}

	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		observability.ObserveBooking("create", "error")
		return domain.Booking{}, err
	}
	if err := s.rooms.SetAvailability(ctx, room.ID, false); err != nil {
		// Keep room state and booking state consistent: undo the persisted
		// booking rather than leave it pending against an available room.
		if derr := s.bookings.DeleteBooking(ctx, b.ID); derr != nil {
			log.Error().Err(derr).Str("booking", b.ID).Msg("rollback of booking failed")
		}
		observability.ObserveBooking("create", "error")
		return domain.Booking{}, err
	}

	s.invalidateListing(ctx)
	if s.notify != nil {
		s.notify.Enqueue(b.PersonalPhone,
			fmt.Sprintf("Your booking for room %s is received and pending confirmation.", room.Number))
	}
	observability.ObserveBooking("create", "ok")
	return b, nil
}

// Cancel transitions an active booking to cancelled and frees its room.
// The room restore is best-effort: a deleted room is skipped silently.
func (s *BookingService) Cancel(ctx context.Context, bookingID string, actor domain.Identity) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		observability.ObserveBooking("cancel", outcomeOf(err))
		return domain.Booking{}, err
	}
	if !actor.MayManage(b.Owner) {
		observability.ObserveBooking("cancel", "forbidden")
		return domain.Booking{}, domain.ErrForbidden
	}

	s.locks.lock(b.RoomID)
	defer s.locks.unlock(b.RoomID)

	// Re-read under the lock; a concurrent cancel may have won.
	b, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !b.CanCancel() {
		observability.ObserveBooking("cancel", "conflict")
		return domain.Booking{}, domain.Conflictf("booking is %s", b.Status)
	}

	b.Status = domain.BookingCancelled
	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		observability.ObserveBooking("cancel", "error")
		return domain.Booking{}, err
	}
	s.freeRoom(ctx, b.RoomID)
	s.invalidateListing(ctx)
	observability.ObserveBooking("cancel", "ok")
	return b, nil
}

// Extend lengthens a confirmed stay, prorating the additional cost from
// the booking's existing daily rate.
func (s *BookingService) Extend(ctx context.Context, bookingID string, newEndDate time.Time, actor domain.Identity) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		observability.ObserveBooking("extend", outcomeOf(err))
		return domain.Booking{}, err
	}
	if !actor.Owns(b.Owner) {
		observability.ObserveBooking("extend", "forbidden")
		return domain.Booking{}, domain.ErrForbidden
	}

	s.locks.lock(b.RoomID)
	defer s.locks.unlock(b.RoomID)

	b, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status != domain.BookingConfirmed {
		observability.ObserveBooking("extend", "conflict")
		return domain.Booking{}, domain.Conflictf("booking is %s", b.Status)
	}
	if b.EndDate == nil || !newEndDate.After(*b.EndDate) {
		observability.ObserveBooking("extend", "invalid")
		return domain.Booking{}, domain.Invalid("newEndDate")
	}

	additionalDays := domain.StayDays(*b.EndDate, newEndDate)
	currentDays := domain.StayDays(b.StartDate, *b.EndDate)
	if currentDays == 0 {
		observability.ObserveBooking("extend", "invalid")
		return domain.Booking{}, domain.Invalid("endDate")
	}
	dailyRate := b.Price / float64(currentDays)
	additionalCost := dailyRate * float64(additionalDays)

	// Snapshot the end date before mutating it; the history entry must
	// record the pre-extension value.
	previousEnd := *b.EndDate
	b.Extensions = append(b.Extensions, domain.Extension{
		PreviousEndDate: previousEnd,
		NewEndDate:      newEndDate,
		AdditionalCost:  additionalCost,
		ExtendedAt:      s.now(),
	})
	b.EndDate = &newEndDate
	b.Price += additionalCost

	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		observability.ObserveBooking("extend", "error")
		return domain.Booking{}, err
	}
	observability.ObserveBooking("extend", "ok")
	return b, nil
}

// AdminUpdateStatus applies status and payment-status changes. Side
// effects on room availability key off the status the booking had before
// the update.
func (s *BookingService) AdminUpdateStatus(ctx context.Context, bookingID string, newStatus *domain.BookingStatus, newPayment *domain.PaymentStatus, actor domain.Identity) (domain.Booking, error) {
	if !actor.IsAdmin() {
		return domain.Booking{}, domain.ErrForbidden
	}
	if newStatus != nil && !validBookingStatus(*newStatus) {
		return domain.Booking{}, domain.Invalid("status")
	}
	if newPayment != nil && !validPaymentStatus(*newPayment) {
		return domain.Booking{}, domain.Invalid("paymentStatus")
	}

	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}

	s.locks.lock(b.RoomID)
	defer s.locks.unlock(b.RoomID)

	b, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}

	prior := b.Status
	if newStatus != nil && *newStatus != prior {
		if prior == domain.BookingCancelled || prior == domain.BookingCompleted {
			return domain.Booking{}, domain.Conflictf("booking is %s", prior)
		}
		switch {
		case *newStatus == domain.BookingCancelled && (prior == domain.BookingPending || prior == domain.BookingConfirmed):
			s.freeRoom(ctx, b.RoomID)
		case *newStatus == domain.BookingConfirmed && prior == domain.BookingPending:
			// Idempotent re-affirmation: the room was already flipped at
			// creation time.
			if err := s.rooms.SetAvailability(ctx, b.RoomID, false); err != nil && !errors.Is(err, domain.ErrNotFound) {
				log.Warn().Err(err).Str("room", b.RoomID).Msg("re-affirm room availability failed")
			}
		}
		b.Status = *newStatus
	}
	if newPayment != nil {
		b.PaymentStatus = *newPayment
		if *newPayment == domain.PaymentPaid {
			now := s.now()
			if b.PaymentDetails == nil {
				b.PaymentDetails = &domain.PaymentDetails{AmountPaid: b.Price}
			}
			b.PaymentDetails.PaidAt = &now
		}
	}

	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return domain.Booking{}, err
	}
	s.invalidateListing(ctx)
	return b, nil
}

// Delete removes the booking record permanently, unlike Cancel which
// retains history.
func (s *BookingService) Delete(ctx context.Context, bookingID string, actor domain.Identity) error {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if !actor.MayManage(b.Owner) {
		return domain.ErrForbidden
	}

	s.locks.lock(b.RoomID)
	defer s.locks.unlock(b.RoomID)

	b, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.Active() {
		s.freeRoom(ctx, b.RoomID)
	}
	if err := s.bookings.DeleteBooking(ctx, b.ID); err != nil {
		return err
	}
	s.invalidateListing(ctx)
	return nil
}

func (s *BookingService) ListMine(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx, domain.BookingFilter{OwnerID: userID})
}

func (s *BookingService) ListAll(ctx context.Context, actor domain.Identity) ([]domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.bookings.ListBookings(ctx, domain.BookingFilter{})
}

// GetByID returns a booking to its owner or an admin. Legacy anonymous
// bookings have no owner and stay readable to any authenticated caller.
func (s *BookingService) GetByID(ctx context.Context, bookingID string, actor domain.Identity) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !b.Owner.IsAnonymous() && !actor.MayManage(b.Owner) {
		return domain.Booking{}, domain.ErrForbidden
	}
	return b, nil
}

func (s *BookingService) freeRoom(ctx context.Context, roomID string) {
	err := s.rooms.SetAvailability(ctx, roomID, true)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return
	}
	log.Warn().Err(err).Str("room", roomID).Msg("restore room availability failed")
}

func (s *BookingService) invalidateListing(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, availableRoomsKey)
	}
}

func validBookingStatus(st domain.BookingStatus) bool {
	switch st {
	case domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted:
		return true
	}
	return false
}

func validPaymentStatus(ps domain.PaymentStatus) bool {
	switch ps {
	case domain.PaymentUnpaid, domain.PaymentPartial, domain.PaymentPaid:
		return true
	}
	return false
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
